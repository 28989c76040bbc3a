// Package textutil normalizes archive bytes for display.
package textutil

import (
	"bytes"
	"unicode/utf8"
)

// sniffLen bounds how much of a payload LooksBinary inspects.
const sniffLen = 8000

// NormalizeUTF8LF converts CRLF to LF and ensures the output is valid UTF-8
// by replacing invalid byte sequences with the Unicode replacement character.
func NormalizeUTF8LF(b []byte) []byte {
	// Normalize newlines first
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("\uFFFD"))
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}

// LooksBinary reports whether b is unlikely to be text: it holds a NUL byte
// or is not valid UTF-8 within the first few kilobytes. Class files, images
// and nested archives all trip this check.
func LooksBinary(b []byte) bool {
	if len(b) > sniffLen {
		b = b[:sniffLen]
		// Don't let a multi-byte rune cut at the boundary count as invalid.
		for i := 0; i < utf8.UTFMax && len(b) > 0 && !utf8.Valid(b); i++ {
			b = b[:len(b)-1]
		}
	}
	return bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b)
}
