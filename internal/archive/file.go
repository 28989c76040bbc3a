package archive

import (
	"os"
)

// fileArchive treats a single file as a container with exactly one entry
// named after the file itself.
type fileArchive struct {
	path string
	size int64
}

func openFile(path string, size int64) *fileArchive {
	return &fileArchive{path: path, size: size}
}

func (f *fileArchive) Name() string { return BaseName(f.path) }
func (f *fileArchive) Path() string { return f.path }
func (f *fileArchive) Kind() Kind   { return KindFile }

func (f *fileArchive) Entries() ([]Entry, error) {
	return []Entry{NewEntry(f.Name(), f.size)}, nil
}

func (f *fileArchive) Stat(name string) (Entry, bool) {
	if name != f.Name() {
		return Entry{}, false
	}
	return NewEntry(name, f.size), true
}

func (f *fileArchive) ReadEntry(name string) ([]byte, error) {
	if name != f.Name() {
		return nil, &ReadError{Path: f.path, Entry: name, Err: os.ErrNotExist}
	}
	return f.Raw()
}

func (f *fileArchive) Raw() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &ReadError{Path: f.path, Err: err}
	}
	return data, nil
}

func (f *fileArchive) Close() error { return nil }
