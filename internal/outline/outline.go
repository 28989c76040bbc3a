// Package outline extracts a shallow structural outline from decompiled Java
// source: package, primary type and method/constructor members.
//
// It uses lightweight regular expressions, not a parser. Good enough for a
// quick overview of a class next to its source; exotic signatures may be
// missed.
package outline

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Examples matched by these regexes:
//
//   package com.acme.foo;
//
//   public class Server<T> implements Runnable {
//       public void start() { ... }      // method
//       protected Server() { ... }       // constructor
//   }
//
//   public @interface Marker { ... }     // annotation type

var (
	// package com.acme.foo;
	reJavaPkg = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z0-9_.]+)\s*;`)

	// [modifiers] class|interface|enum|record|@interface Name
	// Groups:
	//   1: kind
	//   2: type name
	reJavaType = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|abstract|static|final|sealed|non-sealed|strictfp)\s+)*(class|interface|enum|record|@interface)\s+([A-Za-z0-9_$]+)`)

	// Method signature (heuristic): modifiers, a permissive return type
	// (generics, arrays, varargs dots), the name, then "(".
	// Matches stay on one line so Line points at the signature itself.
	reJavaMeth = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|static|final|synchronized|native|abstract|default|strictfp)[ \t]+)*` +
			`[A-Za-z0-9_<>\[\].?,$]+` +
			`[ \t]+([A-Za-z0-9_$]+)[ \t]*\(`,
	)
)

// Words the method regex can mistake for a return type: statement keywords,
// and modifiers when a constructor is read as "public Name(".
var notReturnTypes = map[string]bool{
	"return": true, "new": true, "else": true, "throw": true, "case": true,
	"public": true, "protected": true, "private": true, "static": true, "final": true,
	"abstract": true, "synchronized": true, "native": true, "default": true, "strictfp": true,
}

// Member is one method or constructor.
type Member struct {
	Name   string // simple name, e.g. "start"
	Kind   string // "method" | "ctor"
	Line   int    // 1-based
	Symbol string // qualified, e.g. "com.acme.Server.start"
}

// Outline is the structural summary of one source file.
type Outline struct {
	Package string
	Kind    string // "class" | "interface" | "enum" | "record" | "@interface" | "file"
	Type    string // primary type name, empty when Kind is "file"
	Members []Member
}

// QualifiedType returns "pkg.Type", or just the type in the default package.
func (o Outline) QualifiedType() string {
	return joinSym(o.Package, o.Type, "")
}

// Java outlines a Java source file. Members are ordered by line.
func Java(data []byte) Outline {
	lineOf := func(off int) int { return 1 + bytes.Count(data[:off], []byte("\n")) }

	var o Outline
	if m := reJavaPkg.FindSubmatch(data); m != nil {
		o.Package = string(m[1])
	}
	if m := reJavaType.FindSubmatch(data); m != nil {
		o.Kind = string(m[1])
		o.Type = string(m[2])
	} else {
		o.Kind = "file"
	}

	for _, idx := range reJavaMeth.FindAllSubmatchIndex(data, -1) {
		full := strings.Fields(string(data[idx[0]:idx[2]]))
		if len(full) > 0 && notReturnTypes[full[len(full)-1]] {
			continue
		}
		name := string(data[idx[2]:idx[3]])
		o.Members = append(o.Members, Member{
			Name:   name,
			Kind:   "method",
			Line:   lineOf(idx[0]),
			Symbol: joinSym(o.Package, o.Type, name),
		})
	}

	// Constructors: same name as the primary type, no return type.
	if o.Type != "" {
		reCtor := regexp.MustCompile(fmt.Sprintf(`(?m)^[ \t]*(?:(?:public|protected|private)[ \t]+)?%s[ \t]*\(`, regexp.QuoteMeta(o.Type)))
		for _, ci := range reCtor.FindAllIndex(data, -1) {
			o.Members = append(o.Members, Member{
				Name:   o.Type,
				Kind:   "ctor",
				Line:   lineOf(ci[0]),
				Symbol: joinSym(o.Package, o.Type, o.Type),
			})
		}
	}

	sort.SliceStable(o.Members, func(i, j int) bool { return o.Members[i].Line < o.Members[j].Line })
	return o
}

// String renders the outline as an indented listing:
//
//	class com.acme.Server
//	  12  Server()
//	  20  start()
func (o Outline) String() string {
	var b strings.Builder
	if o.Type == "" {
		b.WriteString(o.Kind)
	} else {
		fmt.Fprintf(&b, "%s %s", o.Kind, o.QualifiedType())
	}
	b.WriteString("\n")
	for _, m := range o.Members {
		fmt.Fprintf(&b, "  %4d  %s()\n", m.Line, m.Name)
	}
	return b.String()
}

// joinSym concatenates package, type and member into a qualified symbol name.
// Empty segments are skipped.
//
//	joinSym("org.acme", "Server", "start") => "org.acme.Server.start"
//	joinSym("", "Server", "start")         => "Server.start"
func joinSym(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}
