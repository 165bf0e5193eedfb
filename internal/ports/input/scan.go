package input

import (
	"context"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/resource"
)

// ScanUseCase runs one extraction over an ordered list of source paths.
type ScanUseCase interface {
	Run(ctx context.Context, paths []string) (*entities.Report, error)
}

// Transformer replaces the default scan-and-store step for each unit.
type Transformer interface {
	Transform(ctx context.Context, unit entities.SourceUnit, store *resource.Store) error
}

// Flusher replaces the default serialize-and-write step.
type Flusher interface {
	Flush(ctx context.Context, store *resource.Store) ([]entities.Document, error)
}
