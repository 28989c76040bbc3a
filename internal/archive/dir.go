package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// dirArchive exposes an exploded class directory (e.g. a build's classes/
// output) as a container. The directory is walked once at open time; the
// walk is deterministic and does not follow symlinks.
type dirArchive struct {
	root    string
	entries []Entry
	byName  map[string]Entry
}

type dirWalk struct {
	root    string
	entries []Entry
}

func openDir(path string) (*dirArchive, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	w := &dirWalk{root: root}
	if err := filepath.WalkDir(root, w.visit); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Name < w.entries[j].Name })

	d := &dirArchive{root: root, entries: w.entries, byName: make(map[string]Entry, len(w.entries))}
	for _, e := range w.entries {
		d.byName[e.Name] = e
	}
	return d, nil
}

func (w *dirWalk) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		// An unreadable root is fatal; unreadable children are skipped.
		if path == w.root {
			return err
		}
		return nil
	}
	if path == w.root {
		return nil
	}
	rel, ok := w.relative(path)
	if !ok {
		return nil
	}
	if isSymlink(d) {
		return nil
	}
	if d.IsDir() {
		w.entries = append(w.entries, NewEntry(rel+"/", 0))
		return nil
	}
	info, err := d.Info()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	w.entries = append(w.entries, NewEntry(rel, info.Size()))
	return nil
}

func (w *dirWalk) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

// isSymlink reports whether the DirEntry is a symlink (file or directory).
func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}

func (d *dirArchive) Name() string { return BaseName(d.root) }
func (d *dirArchive) Path() string { return d.root }
func (d *dirArchive) Kind() Kind   { return KindDir }

func (d *dirArchive) Entries() ([]Entry, error) {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out, nil
}

func (d *dirArchive) Stat(name string) (Entry, bool) {
	e, ok := d.byName[name]
	return e, ok
}

func (d *dirArchive) ReadEntry(name string) ([]byte, error) {
	e, ok := d.byName[name]
	if !ok {
		return nil, &ReadError{Path: d.root, Entry: name, Err: os.ErrNotExist}
	}
	if e.IsDir {
		return nil, &ReadError{Path: d.root, Entry: name, Err: errors.New("is a directory")}
	}
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, &ReadError{Path: d.root, Entry: name, Err: err}
	}
	return data, nil
}

// Raw is not meaningful for a directory.
func (d *dirArchive) Raw() ([]byte, error) {
	return nil, &ReadError{Path: d.root, Err: errors.New("is a directory")}
}

func (d *dirArchive) Close() error { return nil }
