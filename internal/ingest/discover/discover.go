// Package discover enumerates note files under an ingestion root.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
)

// allowedExts is matched against the lower-cased extension.
var allowedExts = map[string]bool{
	".md":  true,
	".txt": true,
}

// IsEligible reports whether path has an allowed note extension.
func IsEligible(path string) bool {
	return allowedExts[strings.ToLower(filepath.Ext(path))]
}

// Files walks root recursively and returns every eligible note file,
// sorted by lower-cased relative path. Symlinked files are followed,
// symlinked directories are not.
func Files(root string) ([]note.File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("notes root %s: %w", root, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes root %s is not a directory: %w", root, domain.ErrInvalidRequest)
	}

	var files []note.File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() || !IsEligible(path) {
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		files = append(files, note.File{AbsPath: path, RelPath: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	Sort(files)
	return files, nil
}

// Sort orders files by lower-cased relative path; ties fall back to the raw path
// so the order never depends on filesystem iteration.
func Sort(files []note.File) {
	sort.Slice(files, func(i, j int) bool {
		a, b := strings.ToLower(files[i].RelPath), strings.ToLower(files[j].RelPath)
		if a != b {
			return a < b
		}
		return files[i].RelPath < files[j].RelPath
	})
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
