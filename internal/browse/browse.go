// Package browse lists directories for the storage root picker.
package browse

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"pastebox/internal/storage"
)

// Entry is one directory (or drive) annotated with what the process may do with it.
type Entry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Type       string `json:"type"`
	Readable   bool   `json:"readable"`
	Writable   bool   `json:"writable"`
	Hidden     bool   `json:"hidden"`
	HasSubdirs bool   `json:"has_subdirs"`
	Error      bool   `json:"error"`
}

// Listing is the content of one directory. ParentPath is nil at a filesystem
// root and "" when the parent is the drive list.
type Listing struct {
	Items           []Entry `json:"items"`
	CurrentPath     string  `json:"current_path"`
	ParentPath      *string `json:"parent_path"`
	CurrentWritable bool    `json:"current_writable"`
}

// List returns the subdirectories of path, visible ones first, then by
// case-insensitive name. An empty path lists the filesystem roots.
// Unreadable children are reported with Error set instead of failing the listing.
func List(path string) (*Listing, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		if runtime.GOOS == "windows" {
			return &Listing{Items: drives()}, nil
		}
		path = "/"
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %q: %w", path, fs.ErrInvalid)
	}

	items, err := children(path)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Hidden != items[j].Hidden {
			return !items[i].Hidden
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return &Listing{
		Items:           items,
		CurrentPath:     path,
		ParentPath:      parentOf(path),
		CurrentWritable: storage.Writable(path),
	}, nil
}

// Walk yields the directories below path depth-first, down to depth levels.
// Directories that cannot be read are yielded but not descended into.
func Walk(path string, depth int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		walk(path, depth, yield)
	}
}

func walk(dir string, depth int, yield func(Entry) bool) bool {
	if depth <= 0 {
		return true
	}
	items, err := children(dir)
	if err != nil {
		return true
	}
	for _, e := range items {
		if !yield(e) {
			return false
		}
		if e.Readable && !e.Error && !walk(e.Path, depth-1, yield) {
			return false
		}
	}
	return true
}

func children(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", dir, err)
	}

	items := make([]Entry, 0, len(des))
	for _, de := range des {
		p := filepath.Join(dir, de.Name())
		if !de.IsDir() {
			if de.Type()&fs.ModeSymlink == 0 {
				continue
			}
			info, err := os.Stat(p)
			if err != nil || !info.IsDir() {
				continue
			}
		}
		items = append(items, annotate(de.Name(), p))
	}
	return items, nil
}

func annotate(name, p string) Entry {
	e := Entry{
		Name:     name,
		Path:     p,
		Type:     "directory",
		Hidden:   strings.HasPrefix(name, "."),
		Readable: storage.Readable(p),
		Writable: storage.Writable(p),
	}
	if !e.Readable {
		return e
	}
	sub, err := os.ReadDir(p)
	if err != nil {
		e.Error = true
		e.HasSubdirs = true
		return e
	}
	for _, s := range sub {
		if s.IsDir() {
			e.HasSubdirs = true
			break
		}
	}
	return e
}

func drives() []Entry {
	var out []Entry
	for l := 'A'; l <= 'Z'; l++ {
		root := string(l) + `:\`
		if _, err := os.Stat(root); err != nil {
			continue
		}
		out = append(out, Entry{
			Name:       string(l) + ": Drive",
			Path:       root,
			Type:       "drive",
			Readable:   storage.Readable(root),
			Writable:   storage.Writable(root),
			HasSubdirs: true,
		})
	}
	return out
}

func parentOf(path string) *string {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean {
		if runtime.GOOS == "windows" {
			drivesList := ""
			return &drivesList
		}
		return nil
	}
	return &parent
}
