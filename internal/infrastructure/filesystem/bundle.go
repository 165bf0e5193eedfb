package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/ports/output"
)

var _ output.BundleWriter = (*BundleWriter)(nil)

// BundleWriter writes each document to its path under an output directory.
type BundleWriter struct {
	root string
}

func NewBundleWriter(root string) *BundleWriter {
	return &BundleWriter{root: root}
}

func (w *BundleWriter) WriteBundles(ctx context.Context, docs []entities.Document) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.root, filepath.FromSlash(doc.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", doc.Path, err)
		}
		if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", doc.Path, err)
		}
	}
	return nil
}
