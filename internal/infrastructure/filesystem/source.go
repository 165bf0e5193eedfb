package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"i18nscan/internal/ports/output"
)

var _ output.SourceReader = (*SourceReader)(nil)

// SourceReader reads units relative to a root directory.
type SourceReader struct {
	root string
}

func NewSourceReader(root string) *SourceReader {
	return &SourceReader{root: root}
}

func (r *SourceReader) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, filepath.FromSlash(path))
	}
	return os.ReadFile(path)
}
