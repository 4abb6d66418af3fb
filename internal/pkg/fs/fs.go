package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a lazily listed directory tree, only subdirectories are tracked. Symlinks resolving
// to directories are reported as directories which is the usual case for sysfs class trees
// like /sys/class/graphics.
type Entry struct {
	path string

	listed bool
	dirs   map[string]Entry
}

func NewEntry(path string) Entry {
	return Entry{
		path: path,
	}
}

func (e *Entry) list() error {
	entries, err := os.ReadDir(e.path)
	if err != nil {
		return fmt.Errorf("cannot read \"%s\" directory: %w", e.path, err)
	}

	dirs := make(map[string]Entry)

	for _, entry := range entries {
		path := filepath.Join(e.path, entry.Name())
		if entry.IsDir() {
			dirs[entry.Name()] = NewEntry(path)
			continue
		}

		info, err := os.Stat(path) // follows symlinks
		if err == nil && info.IsDir() {
			dirs[entry.Name()] = NewEntry(path)
		}
	}
	e.dirs = dirs
	e.listed = true
	return nil
}

func (e *Entry) Dirs() (map[string]Entry, error) {
	if !e.listed {
		err := e.list()
		if err != nil {
			return map[string]Entry{}, err
		}
	}
	return e.dirs, nil
}

// DirNames returns sorted names of subdirectories starting with prefix
func (e *Entry) DirNames(prefix string) ([]string, error) {
	dirs, err := e.Dirs()
	if err != nil {
		return nil, err
	}

	var names []string
	for name := range dirs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadString reads a file relative to the entry, surrounding whitespace is trimmed
func (e *Entry) ReadString(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(e.path, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
