// Package index reduces an archive's flat entry list to the entries a user
// should browse: resources, top-level classes, and nested classes whose
// enclosing class is absent.
//
// Which names count as compiled classes, and which of those are synthetic
// nested artifacts, is decided by a Convention so other binary ecosystems can
// plug in their own naming rules.
package index

import "strings"

// Convention describes how one compiled-code ecosystem names its artifacts.
type Convention interface {
	// IsCompiled reports whether name is a compiled unit (e.g. "a/B.class").
	IsCompiled(name string) bool
	// IsNested reports whether a compiled name looks like a synthetic
	// nested-unit artifact.
	IsNested(name string) bool
	// EnclosingName returns the compiled name of the unit enclosing a nested
	// artifact ("a/B$1.class" -> "a/B.class").
	EnclosingName(name string) string
	// SourceName rewrites a compiled name to its decompiled source name
	// ("a/B.class" -> "a/B.java").
	SourceName(name string) string
}

// Java is the JVM naming convention: "$"-joined nested class files.
var Java Convention = javaConvention{classSuffix: ".class", sourceSuffix: ".java"}

// NewJava returns the JVM convention with custom suffixes (both including the dot).
func NewJava(classSuffix, sourceSuffix string) Convention {
	if classSuffix == "" {
		classSuffix = ".class"
	}
	if sourceSuffix == "" {
		sourceSuffix = ".java"
	}
	return javaConvention{classSuffix: classSuffix, sourceSuffix: sourceSuffix}
}

type javaConvention struct {
	classSuffix  string
	sourceSuffix string
}

func (c javaConvention) IsCompiled(name string) bool {
	return strings.HasSuffix(name, c.classSuffix)
}

// IsNested matches a "$" inside the last path segment with at least one
// character before it and at least one before the class suffix. "Foo$.class"
// (a Scala module class) is not nested.
func (c javaConvention) IsNested(name string) bool {
	if !c.IsCompiled(name) {
		return false
	}
	return c.nestedCut(lastSegment(name)) > 0
}

func (c javaConvention) EnclosingName(name string) string {
	seg := lastSegment(name)
	cut := c.nestedCut(seg)
	if cut <= 0 {
		return name
	}
	dir := name[:len(name)-len(seg)]
	return dir + seg[:cut] + c.classSuffix
}

func (c javaConvention) SourceName(name string) string {
	if !c.IsCompiled(name) {
		return name
	}
	return strings.TrimSuffix(name, c.classSuffix) + c.sourceSuffix
}

// nestedCut returns the index of the first "$" in seg that has at least one
// character before it and a non-empty name between it and the class suffix,
// or -1.
func (c javaConvention) nestedCut(seg string) int {
	stem := strings.TrimSuffix(seg, c.classSuffix)
	if len(stem) < 2 {
		return -1
	}
	i := strings.IndexByte(stem[1:], '$')
	if i < 0 {
		return -1
	}
	cut := i + 1
	if cut == len(stem)-1 {
		return -1
	}
	return cut
}

// lastSegment returns the part of name after the last '/' or '\'.
func lastSegment(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}
