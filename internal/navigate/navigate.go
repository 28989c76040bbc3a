// Package navigate turns a selected tree path into displayable content.
//
// Compiled entries are served from the decompiled output cache, everything
// else is read from the archive on demand. Resolution never mutates the
// cache or the tree, so resolving the same path twice gives the same answer
// for as long as the session stays open.
package navigate

import (
	"errors"
	"fmt"
	"strings"

	"class-browser/internal/archive"
	"class-browser/internal/index"
	"class-browser/internal/metrics"
	"class-browser/internal/textutil"
)

// Kind tells a viewer how content was produced.
type Kind int

const (
	Decompiled Kind = iota
	Raw
)

func (k Kind) String() string {
	switch k {
	case Decompiled:
		return "decompiled"
	case Raw:
		return "raw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Content is what a viewer tab shows.
type Content struct {
	Name   string // suggested tab title, e.g. "B.java"
	Entry  string // archive entry the content came from; "" for the archive itself
	Kind   Kind
	Text   string // display text, UTF-8 with LF line endings; empty for binary data
	Data   []byte // raw bytes for Raw content
	Binary bool
}

// Sources is the read side of the decompiled output cache.
type Sources interface {
	Lookup(name string) (string, bool)
}

// ErrNotReady reports a compiled entry whose source has not arrived yet
// while decompilation is still running. Retry after the run completes.
var ErrNotReady = errors.New("decompiled source not ready yet")

// EntryNotFoundError reports a path that matches no archive entry.
type EntryNotFoundError struct {
	Entry string
}

func (e *EntryNotFoundError) Error() string {
	if e.Entry == "" {
		return "entry not found: empty selection"
	}
	return fmt.Sprintf("entry not found: %s", e.Entry)
}

// ContentMissingError reports a compiled entry that was submitted for
// decompilation but never produced output. It indicates a defect in the
// decompiler run, not a user error.
type ContentMissingError struct {
	Entry  string
	Source string
}

func (e *ContentMissingError) Error() string {
	return fmt.Sprintf("no decompiled source %s for %s", e.Source, e.Entry)
}

// UnsupportedEntryError reports a selection the browser deliberately does
// not handle, such as decompiling a lone class file opened as the archive.
type UnsupportedEntryError struct {
	Name   string
	Reason string
}

func (e *UnsupportedEntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// Resolver maps selections to content for one loaded archive.
type Resolver struct {
	Archive    archive.Archive
	Cache      Sources
	Convention index.Convention
	// Pending reports whether decompilation is still running. Nil means
	// it has finished.
	Pending func() bool
}

// Resolve resolves a selection path. path[0] is the root label and stands
// for the archive itself; later elements are entry path segments.
func (r *Resolver) Resolve(path []string) (Content, error) {
	c, err := r.resolve(path)
	metrics.RecordResolve(outcome(c, err))
	return c, err
}

func (r *Resolver) resolve(path []string) (Content, error) {
	conv := r.Convention
	if conv == nil {
		conv = index.Java
	}
	switch len(path) {
	case 0:
		return Content{}, &EntryNotFoundError{}
	case 1:
		return r.root(conv)
	}

	entry := strings.Join(path[1:], "/")
	e, ok := r.Archive.Stat(entry)
	if !ok || e.IsDir {
		return Content{}, &EntryNotFoundError{Entry: entry}
	}

	if conv.IsCompiled(entry) {
		src := conv.SourceName(entry)
		text, ok := r.Cache.Lookup(src)
		if !ok {
			if r.Pending != nil && r.Pending() {
				return Content{}, fmt.Errorf("%s: %w", entry, ErrNotReady)
			}
			return Content{}, &ContentMissingError{Entry: entry, Source: src}
		}
		return Content{
			Name:  conv.SourceName(path[len(path)-1]),
			Entry: entry,
			Kind:  Decompiled,
			Text:  text,
		}, nil
	}

	data, err := r.Archive.ReadEntry(entry)
	if err != nil {
		return Content{}, readError(r.Archive.Path(), entry, err)
	}
	return rawContent(path[len(path)-1], entry, data), nil
}

func (r *Resolver) root(conv index.Convention) (Content, error) {
	name := r.Archive.Name()
	if conv.IsCompiled(name) {
		return Content{}, &UnsupportedEntryError{Name: name, Reason: "decompiling a single class file is not supported"}
	}
	data, err := r.Archive.Raw()
	if err != nil {
		return Content{}, readError(r.Archive.Path(), "", err)
	}
	return rawContent(name, "", data), nil
}

func rawContent(name, entry string, data []byte) Content {
	c := Content{Name: name, Entry: entry, Kind: Raw, Data: data}
	if textutil.LooksBinary(data) {
		c.Binary = true
		return c
	}
	c.Text = string(textutil.NormalizeUTF8LF(data))
	return c
}

func readError(path, entry string, err error) error {
	var re *archive.ReadError
	if errors.As(err, &re) {
		return err
	}
	return &archive.ReadError{Path: path, Entry: entry, Err: err}
}

func outcome(c Content, err error) string {
	if err == nil {
		return c.Kind.String()
	}
	var (
		nf *EntryNotFoundError
		cm *ContentMissingError
		ue *UnsupportedEntryError
	)
	switch {
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &cm):
		return "missing"
	case errors.As(err, &ue):
		return "unsupported"
	default:
		return "error"
	}
}
