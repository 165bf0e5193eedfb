package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// BackupLayout names the per-run backup directory.
const BackupLayout = "20060102-150405"

// Backup copies the tree at src into dstRoot/<timestamp> and returns the
// created directory. A missing src is not an error and returns "".
func Backup(src, dstRoot string, now time.Time) (string, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("backup %s: not a directory", src)
	}

	dst := filepath.Join(dstRoot, now.Format(BackupLayout))
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", src, err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
