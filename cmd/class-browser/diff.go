package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"class-browser/internal/config"
	"class-browser/internal/diff"
	"class-browser/internal/navigate"
	"class-browser/internal/session"
)

// maxDiffBytes bounds the combined size of the two sides of a diff.
const maxDiffBytes = 2_000_000

// cmdDiff opens both archives in turn in one session and diffs the
// resolved content of entry. An entry present on one side only shows as
// added or removed.
func cmdDiff(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: diff takes two archives and an entry", errUsage)
	}
	entry := args[2]
	s := newSession(cfg)
	defer s.Close()

	oldC, oldOK, err := openAndResolve(ctx, s, args[0], entry)
	if err != nil {
		return err
	}
	newC, newOK, err := openAndResolve(ctx, s, args[1], entry)
	if err != nil {
		return err
	}

	opt := diff.Options{MaxBytes: maxDiffBytes, NoPrefix: true}
	var body string
	switch {
	case !oldOK && !newOK:
		return &navigate.EntryNotFoundError{Entry: entry}
	case !oldOK:
		if newC.Binary {
			body = fmt.Sprintf("Binary entry %s added\n", entry)
		} else {
			body, _ = diff.Added(displayName(entry, newC), []byte(newC.Text), opt)
		}
	case !newOK:
		if oldC.Binary {
			body = fmt.Sprintf("Binary entry %s removed\n", entry)
		} else {
			body, _ = diff.Removed(displayName(entry, oldC), []byte(oldC.Text), opt)
		}
	case oldC.Binary || newC.Binary:
		if !bytes.Equal(oldC.Data, newC.Data) {
			body = fmt.Sprintf("Binary entries %s differ\n", entry)
		}
	default:
		body, _ = diff.Unified(
			args[0]+"!"+displayName(entry, oldC),
			args[1]+"!"+displayName(entry, newC),
			[]byte(oldC.Text), []byte(newC.Text), opt)
	}
	_, err = io.WriteString(stdout, body)
	return err
}

// openAndResolve loads archivePath into s and resolves entry. ok is false
// when the entry does not exist in that archive.
func openAndResolve(ctx context.Context, s *session.Session, archivePath, entry string) (c navigate.Content, ok bool, err error) {
	if err := s.Open(ctx, archivePath); err != nil {
		return c, false, err
	}
	c, err = resolveEntry(ctx, s, entry)
	var nf *navigate.EntryNotFoundError
	if errors.As(err, &nf) {
		return c, false, nil
	}
	return c, err == nil, err
}

// displayName is entry with its last segment replaced by the content name,
// so decompiled classes show as their source files.
func displayName(entry string, c navigate.Content) string {
	if entry == "" || c.Name == "" {
		return entry
	}
	dir := path.Dir(entry)
	if dir == "." {
		return c.Name
	}
	return dir + "/" + c.Name
}
