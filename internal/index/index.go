package index

import (
	"errors"
	"strings"

	"class-browser/internal/archive"
)

// Names filters entries down to the browsable set:
//
//   - directories and blank names are dropped;
//   - non-compiled entries (resources) are kept;
//   - compiled entries that are not nested are kept (base classes);
//   - nested entries are kept only when their enclosing class is absent.
//
// Names are trimmed and de-duplicated. Output order is unspecified; the tree
// builder owns ordering.
func Names(entries []archive.Entry, conv Convention) []string {
	if conv == nil {
		conv = Java
	}
	seen := make(map[string]struct{}, len(entries))
	base := make(map[string]struct{}, len(entries))
	var nested []string
	out := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir {
			continue
		}
		name := strings.TrimSpace(e.Name)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		switch {
		case !conv.IsCompiled(name):
			out = append(out, name)
		case conv.IsNested(name):
			nested = append(nested, name)
		default:
			base[name] = struct{}{}
			out = append(out, name)
		}
	}

	for _, n := range nested {
		if _, ok := base[conv.EnclosingName(n)]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Archive enumerates a and returns its browsable entry names. Enumeration
// failures are returned as *archive.ReadError with no partial result.
func Archive(a archive.Archive, conv Convention) ([]string, error) {
	entries, err := a.Entries()
	if err != nil {
		var re *archive.ReadError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, &archive.ReadError{Path: a.Path(), Err: err}
	}
	return Names(entries, conv), nil
}

// Compiled returns every compiled, non-directory entry name in entries,
// nested artifacts included. This is the set handed to a decompiler.
func Compiled(entries []archive.Entry, conv Convention) []string {
	if conv == nil {
		conv = Java
	}
	var out []string
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if conv.IsCompiled(e.Name) {
			out = append(out, e.Name)
		}
	}
	return out
}
