package build

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ClearOutput removes everything under dir except the keep entry, then
// makes sure dir and dir/keep exist.
func ClearOutput(dir, keep string) error {
	if err := guardOutputDir(dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, keep), 0o750); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	return nil
}

func guardOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("output dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	if abs == filepath.Dir(abs) {
		return fmt.Errorf("refusing to clear filesystem root %s", abs)
	}
	if home, herr := os.UserHomeDir(); herr == nil && abs == filepath.Clean(home) {
		return fmt.Errorf("refusing to clear home directory %s", abs)
	}
	if wd, werr := os.Getwd(); werr == nil && abs == wd {
		return fmt.Errorf("refusing to clear working directory %s", abs)
	}
	return nil
}

// CopyStatic copies each named directory of fsys into dst. Directories that
// do not exist in fsys are skipped.
func CopyStatic(fsys fs.FS, dirs []string, dst string) (int, error) {
	copied := 0
	for _, dir := range dirs {
		info, err := fs.Stat(fsys, dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		n, err := CopyDir(fsys, dir, filepath.Join(dst, filepath.FromSlash(dir)))
		copied += n
		if err != nil {
			return copied, err
		}
	}
	return copied, nil
}

// CopyDir recursively copies src from fsys to the directory dst on disk,
// overwriting existing files. It returns the number of files copied.
func CopyDir(fsys fs.FS, src, dst string) (int, error) {
	copied := 0
	err := fs.WalkDir(fsys, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, src), "/")
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(fsys, p, target); err != nil {
			return fmt.Errorf("copy %s: %w", path.Clean(p), err)
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(fsys fs.FS, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	// #nosec G304 -- dst is derived from the configured output dir
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
