package archive

import (
	"os"
	"path/filepath"

	"github.com/sealfile/sealfile/internal/errs"
)

// entry is one path destined for the archive, with both its filesystem
// path and the relative path it should carry inside the archive. isDir
// distinguishes a directory entry (written as a zero-length zip entry
// with a trailing slash) from a file entry.
type entry struct {
	fsPath  string
	relPath string
	isDir   bool
}

// walk enumerates the files and directories under root, honoring
// recursive and exclude. Symbolic links are always skipped; a path is
// excluded if it matches any exclude pattern against either its full
// relative path or its basename. Directories are emitted as their own
// entries so that empty subdirectories round-trip through the archive.
func walk(root string, recursive bool, exclude []string) ([]entry, error) {
	var out []entry
	if err := walkDir(root, "", recursive, exclude, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkDir(fsDir, relDir string, recursive bool, exclude []string, out *[]entry) error {
	items, err := os.ReadDir(fsDir)
	if err != nil {
		return errs.Wrap("walkDir", errs.KindIoError, "failed to read directory", err)
	}

	for _, item := range items {
		fsPath := filepath.Join(fsDir, item.Name())
		relPath := item.Name()
		if relDir != "" {
			relPath = filepath.Join(relDir, item.Name())
		}

		if matchesAny(exclude, relPath, item.Name()) {
			continue
		}

		info, err := item.Info()
		if err != nil {
			return errs.Wrap("walkDir", errs.KindIoError, "failed to stat directory entry", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if item.IsDir() {
			*out = append(*out, entry{fsPath: fsPath, relPath: filepath.ToSlash(relPath), isDir: true})
			if recursive {
				if err := walkDir(fsPath, relPath, recursive, exclude, out); err != nil {
					return err
				}
			}
			continue
		}

		*out = append(*out, entry{fsPath: fsPath, relPath: filepath.ToSlash(relPath)})
	}
	return nil
}

func matchesAny(patterns []string, path, base string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
