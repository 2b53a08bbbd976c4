package pages

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mapper translates between logical slash-separated page paths and filesystem
// locations under a root directory, for files carrying a fixed extension.
// Filename and LogicalPath are inverse over the set of files Walk visits.
type Mapper struct {
	Root string
	Ext  string
}

// Filename returns the filesystem location backing a logical path.
func (m Mapper) Filename(logical string) string {
	return filepath.Join(m.Root, filepath.FromSlash(logical)+m.Ext)
}

// LogicalPath converts a filesystem location under the root back to its
// logical path.
func (m Mapper) LogicalPath(filename string) (string, error) {
	rel, err := filepath.Rel(m.Root, filename)
	if err != nil {
		return "", fmt.Errorf("file %s is not under root %s: %w", filename, m.Root, err)
	}
	if !strings.HasSuffix(rel, m.Ext) {
		return "", fmt.Errorf("file %s does not carry extension %s", filename, m.Ext)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, m.Ext)), nil
}

// Walk visits every page file under the root, calling fn with the logical
// path and the filesystem location. Directories are recursed into, entries
// without the configured extension are skipped, and symlinks pointing at
// directories are excluded. Suffix matching is exact and case-sensitive.
func (m Mapper) Walk(fn func(logical, filename string) error) error {
	return filepath.WalkDir(m.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), m.Ext) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, serr := os.Stat(path)
			if serr != nil || info.IsDir() {
				return nil
			}
		}

		logical, err := m.LogicalPath(path)
		if err != nil {
			return err
		}
		return fn(logical, path)
	})
}
