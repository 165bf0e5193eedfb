package output

import (
	"context"

	"i18nscan/internal/domain/syntax"
)

// SourceReader loads the raw text of one source unit.
type SourceReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// CodeParser reduces script sources to their structural occurrences.
type CodeParser interface {
	Supports(ext string) bool
	Parse(ctx context.Context, ext string, src []byte) (*syntax.Unit, error)
}

// MarkupExtractor finds attribute-driven keys in markup.
type MarkupExtractor interface {
	Extract(src []byte) ([]syntax.AttrMatch, error)
}
