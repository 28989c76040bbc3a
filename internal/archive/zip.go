package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"class-browser/internal/ziputil"
)

type zipArchive struct {
	path string
	rc   *zip.ReadCloser

	// byName maps sanitized entry names to their headers; the first
	// occurrence wins for duplicated names.
	byName  map[string]*zip.File
	entries []Entry

	closeOnce sync.Once
	closeErr  error
}

func openZip(path string) (*zipArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	z := &zipArchive{
		path:   path,
		rc:     rc,
		byName: make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		name := ziputil.SanitizePath(f.Name)
		if name == "" {
			continue
		}
		if _, dup := z.byName[name]; dup {
			continue
		}
		z.byName[name] = f
		z.entries = append(z.entries, NewEntry(name, int64(f.UncompressedSize64)))
	}
	return z, nil
}

func (z *zipArchive) Name() string { return BaseName(z.path) }
func (z *zipArchive) Path() string { return z.path }
func (z *zipArchive) Kind() Kind   { return KindZip }

func (z *zipArchive) Entries() ([]Entry, error) {
	out := make([]Entry, len(z.entries))
	copy(out, z.entries)
	return out, nil
}

func (z *zipArchive) Stat(name string) (Entry, bool) {
	f, ok := z.byName[name]
	if !ok {
		return Entry{}, false
	}
	return NewEntry(name, int64(f.UncompressedSize64)), true
}

func (z *zipArchive) ReadEntry(name string) ([]byte, error) {
	f, ok := z.byName[name]
	if !ok {
		return nil, &ReadError{Path: z.path, Entry: name, Err: os.ErrNotExist}
	}
	if f.FileInfo().IsDir() {
		return nil, &ReadError{Path: z.path, Entry: name, Err: errors.New("is a directory")}
	}
	r, err := f.Open()
	if err != nil {
		return nil, &ReadError{Path: z.path, Entry: name, Err: err}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Path: z.path, Entry: name, Err: fmt.Errorf("premature end of stream: %w", err)}
	}
	return data, nil
}

func (z *zipArchive) Raw() ([]byte, error) {
	data, err := os.ReadFile(z.path)
	if err != nil {
		return nil, &ReadError{Path: z.path, Err: err}
	}
	return data, nil
}

func (z *zipArchive) Close() error {
	z.closeOnce.Do(func() { z.closeErr = z.rc.Close() })
	return z.closeErr
}
