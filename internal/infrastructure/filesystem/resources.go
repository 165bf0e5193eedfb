package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader receives the existing values of one bundle.
type Loader interface {
	Load(locale, ns string, values map[string]string) error
}

// LoadResources reads existing bundles found at loadPath (with {{lng}} and
// {{ns}} placeholders) under root. Missing files are skipped; only string
// values are kept.
func LoadResources(root, loadPath string, locales, namespaces []string, dst Loader) (int, error) {
	loaded := 0
	for _, lng := range locales {
		for _, ns := range namespaces {
			rel := strings.NewReplacer("{{lng}}", lng, "{{ns}}", ns).Replace(loadPath)
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return loaded, fmt.Errorf("read %s: %w", rel, err)
			}

			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				return loaded, fmt.Errorf("parse %s: %w", rel, err)
			}
			values := make(map[string]string, len(raw))
			for k, v := range raw {
				if s, ok := v.(string); ok {
					values[k] = s
				}
			}
			if err := dst.Load(lng, ns, values); err != nil {
				return loaded, err
			}
			loaded++
		}
	}
	return loaded, nil
}
