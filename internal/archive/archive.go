// Package archive provides read-only access to the containers the browser can
// open: ZIP-family archives (.jar, .zip, .war, .ear), a single file treated as
// one entry, or an exploded class directory.
//
// Conventions:
//   - Entry names use forward slashes and never start with '/'.
//   - Directory entries end with '/'.
//   - Nothing in this package writes to the container.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the container format behind an Archive.
type Kind string

const (
	KindZip  Kind = "zip"
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// zipSuffixes lists the lowercase extensions opened as ZIP-family archives.
var zipSuffixes = []string{".jar", ".zip", ".war", ".ear"}

// Entry describes one addressable unit inside an archive.
type Entry struct {
	Name  string // slash-separated path, unique within the archive
	IsDir bool   // true iff Name ends with '/'
	Size  int64  // uncompressed size in bytes, -1 when unknown
}

// NewEntry builds an Entry, deriving IsDir from the name.
func NewEntry(name string, size int64) Entry {
	return Entry{Name: name, IsDir: strings.HasSuffix(name, "/"), Size: size}
}

// Archive is an opened, immutable container.
type Archive interface {
	// Name is the base name of the container, used as the tree root label.
	Name() string
	// Path is the filesystem path the archive was opened from.
	Path() string
	Kind() Kind
	// Entries enumerates every entry, directories included.
	Entries() ([]Entry, error)
	// Stat looks up a single entry by its exact name.
	Stat(name string) (Entry, bool)
	// ReadEntry returns the raw bytes of a non-directory entry.
	ReadEntry(name string) ([]byte, error)
	// Raw returns the bytes of the container itself.
	Raw() ([]byte, error)
	Close() error
}

// ReadError reports a missing, corrupt or unreadable archive or entry.
type ReadError struct {
	Path  string // archive path
	Entry string // entry name, empty when the container itself failed
	Err   error
}

func (e *ReadError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("read %s!%s: %v", e.Path, e.Entry, e.Err)
	}
	return fmt.Sprintf("read archive %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IsZipName reports whether name carries a ZIP-family extension.
func IsZipName(name string) bool {
	lc := strings.ToLower(name)
	for _, s := range zipSuffixes {
		if strings.HasSuffix(lc, s) {
			return true
		}
	}
	return false
}

// Open detects the container kind at path and opens it.
func Open(path string) (Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	switch {
	case info.IsDir():
		return openDir(path)
	case IsZipName(path):
		return openZip(path)
	default:
		return openFile(path, info.Size()), nil
	}
}

// BaseName returns the last element of a slash- or backslash-separated path.
func BaseName(path string) string {
	if path == "" {
		return ""
	}
	p := strings.ReplaceAll(path, `\`, "/")
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndex(p, "/"); i != -1 {
		return p[i+1:]
	}
	return filepath.Base(p)
}
