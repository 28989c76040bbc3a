// Package diff provides unified-diff generation for resolved entry content.
// It uses github.com/pmezard/go-difflib/difflib to produce classic unified
// patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

const devNull = "/dev/null"

// Options controls patch generation behavior.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded,
	// a minimal placeholder patch is returned and oversize=true.
	// 0 means "no limit".
	MaxBytes int

	// Context controls the number of CONTEXT LINES in unified hunks.
	// If 0, default to 4.
	Context int

	// NoPrefix controls whether FromFile/ToFile are prefixed with "a/" and "b/".
	// When true, the paths passed by the caller are used as-is.
	NoPrefix bool
}

func (o Options) context() int {
	if o.Context <= 0 {
		return 4
	}
	return o.Context
}

func (o Options) names(aName, bName string) (string, string) {
	if o.NoPrefix {
		return aName, bName
	}
	if aName != devNull {
		aName = "a/" + aName
	}
	if bName != devNull {
		bName = "b/" + bName
	}
	return aName, bName
}

// Unified produces a classic unified patch for a↦b. An empty body means the
// inputs are identical. oversize reports that the patch was replaced by a
// placeholder due to MaxBytes.
func Unified(aName, bName string, a, b []byte, opt Options) (body string, oversize bool) {
	aName, bName = opt.names(aName, bName)
	if opt.MaxBytes > 0 && (len(a)+len(b)) > opt.MaxBytes {
		return omitted(aName, bName), true
	}
	s, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  opt.context(),
	})
	if err != nil {
		// Very rare; return placeholder instead of an empty patch.
		return omitted(aName, bName), false
	}
	return s, false
}

// Added produces a patch that adds the entire content b (no old version).
func Added(bName string, b []byte, opt Options) (string, bool) {
	return Unified(devNull, bName, nil, b, opt)
}

// Removed produces a patch that deletes the entire content a.
func Removed(aName string, a []byte, opt Options) (string, bool) {
	return Unified(aName, devNull, a, nil, opt)
}

// splitLinesKeepNL splits into lines and keeps newline characters,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	// SplitAfter keeps the "\n" at the end of each element. A final chunk
	// without "\n" is kept as is.
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
