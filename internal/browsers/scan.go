package browsers

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Entry is a single filesystem entry produced by Walk.
type Entry struct {
	Path  string
	Name  string
	IsDir bool
}

// ListSubdirectories returns the names of the directories directly under path,
// sorted by name. A missing or unreadable path yields no names.
func ListSubdirectories(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return []string{}
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs
}

// Walk lazily yields the entries below start in lexical depth-first order.
// Hidden entries are skipped and hidden directories are never entered; this
// includes start itself. The start directory is not yielded. Unreadable
// subtrees are skipped.
func Walk(start string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if isHidden(d.Name()) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if path == start {
				return nil
			}
			if !yield(Entry{Path: path, Name: d.Name(), IsDir: d.IsDir()}) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// FindFile returns the first file below start named exactly name.
func FindFile(start, name string) (string, bool) {
	for entry := range Walk(start) {
		if !entry.IsDir && entry.Name == name {
			return entry.Path, true
		}
	}
	return "", false
}

// isHidden reports whether name starts with a dot. The "." and ".." path
// elements are not hidden.
func isHidden(name string) bool {
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
