// Package ziputil holds the small ZIP helpers shared by archive reading and
// source export: entry-name sanitizing and reproducible entry writes.
package ziputil

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FixedZipTime ensures byte-for-byte reproducible archives (1980-01-01 UTC).
var FixedZipTime = time.Unix(315532800, 0).UTC()

// SanitizePath normalizes ZIP entry paths (forward slashes, no drive, no leading '/'),
// and removes '.' and '..' segments without escaping the root. A trailing '/'
// is preserved so directory entries stay recognizable. Returns "" for names
// that collapse to nothing. Backslashes count as separators.
func SanitizePath(p string) string {
	s := strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	dir := strings.HasSuffix(s, "/")
	s = strings.TrimLeft(s, "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	s = strings.Join(stack, "/")
	if s != "" && dir {
		s += "/"
	}
	return s
}

// WriteText writes raw text (bytes) entry with fixed timestamp.
func WriteText(zw *zip.Writer, name string, data []byte) error {
	clean := SanitizePath(name)
	if clean == "" {
		return fmt.Errorf("create %q: empty entry name", name)
	}
	h := &zip.FileHeader{Name: clean, Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = FixedZipTime
	w, err := zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// WriteFile stores data bytes as a file entry with fixed timestamp.
func WriteFile(zw *zip.Writer, name string, data []byte) error {
	return WriteText(zw, name, data)
}

// WriteDir adds an explicit directory entry ("name/").
func WriteDir(zw *zip.Writer, name string) error {
	clean := SanitizePath(strings.TrimSuffix(name, "/"))
	if clean == "" {
		return fmt.Errorf("create %q: empty entry name", name)
	}
	h := &zip.FileHeader{Name: clean + "/", Method: zip.Store}
	h.SetMode(fs.ModeDir | 0o755)
	h.Modified = FixedZipTime
	if _, err := zw.CreateHeader(h); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	return nil
}
