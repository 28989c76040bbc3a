// Package bundle writes the decompiled sources of a session to a
// reproducible ZIP:
//
//	README.md      # stable (no wall-clock timestamps)
//	TOC.md         # source table: path, lines, primary type
//	manifest.json  # machine-readable listing with outlines
//	src/<entries>  # one file per decompiled class
//
// Output is deterministic: fixed timestamps, sorted entries, sanitized
// names that cannot escape the archive root.
package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"class-browser/internal/outline"
	"class-browser/internal/sortutil"
	"class-browser/internal/textutil"
	"class-browser/internal/ziputil"
)

// ExportOptions describes where the sources came from.
type ExportOptions struct {
	Module  string // bundle title, usually the archive base name
	Archive string // archive path as opened
	Engine  string // decompiler engine name
}

// Manifest is written as manifest.json.
type Manifest struct {
	Module  string         `json:"module"`
	Archive string         `json:"archive,omitempty"`
	Engine  string         `json:"engine,omitempty"`
	Files   []ManifestFile `json:"files"`
}

// ManifestFile is one exported source.
type ManifestFile struct {
	Path    string   `json:"path"`  // entry name inside src/
	Entry   string   `json:"entry"` // cache key the source was stored under
	Lines   int      `json:"lines"`
	Kind    string   `json:"kind"`
	Type    string   `json:"type,omitempty"`
	Members []string `json:"members,omitempty"`
}

// WriteSources writes sources (entry name -> text) to zipPath.
func WriteSources(zipPath string, opts ExportOptions, sources map[string]string) error {
	if dir := filepath.Dir(zipPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	names = sortutil.StablePathSort(names)

	man := Manifest{
		Module:  moduleName(opts.Module),
		Archive: opts.Archive,
		Engine:  opts.Engine,
		Files:   make([]ManifestFile, 0, len(names)),
	}
	used := make(map[string]struct{}, len(names))
	bodies := make([][]byte, 0, len(names))
	for _, name := range names {
		body := textutil.EnsureTrailingLF(textutil.NormalizeUTF8LF([]byte(sources[name])))
		rel := ziputil.SanitizePath(strings.TrimSuffix(name, "/"))
		if rel == "" {
			rel = "entry"
		}
		o := outline.Java(body)
		members := make([]string, 0, len(o.Members))
		for _, m := range o.Members {
			members = append(members, m.Name+"()")
		}
		man.Files = append(man.Files, ManifestFile{
			Path:    ensureUniqueName(rel, used),
			Entry:   name,
			Lines:   bytes.Count(body, []byte("\n")),
			Kind:    o.Kind,
			Type:    o.QualifiedType(),
			Members: members,
		})
		bodies = append(bodies, body)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	err = writeAll(zw, man, bodies)
	if cerr := zw.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", zipPath, cerr)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(zipPath)
	}
	return err
}

func writeAll(zw *zip.Writer, man Manifest, bodies [][]byte) error {
	readme := GenerateReadme(ReadmeOptions{
		ModuleName: man.Module,
		Archive:    man.Archive,
		Engine:     man.Engine,
		Sources:    len(man.Files),
	})
	if err := ziputil.WriteText(zw, "README.md", readme); err != nil {
		return err
	}
	if err := ziputil.WriteText(zw, "TOC.md", toc(man.Files)); err != nil {
		return err
	}
	js, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return err
	}
	if err := ziputil.WriteText(zw, "manifest.json", append(js, '\n')); err != nil {
		return err
	}
	for i, mf := range man.Files {
		if err := ziputil.WriteText(zw, "src/"+mf.Path, bodies[i]); err != nil {
			return err
		}
	}
	return nil
}

// toc renders a quick table of contents: path, line count, primary type.
func toc(files []ManifestFile) []byte {
	var b strings.Builder
	b.WriteString("# TOC\n\n| # | Path | Lines | Type |\n|---:|:-----|-----:|:-----|\n")
	for i, f := range files {
		b.WriteString("| ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(" | ")
		b.WriteString(f.Path)
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(f.Lines))
		b.WriteString(" | ")
		if f.Type != "" {
			b.WriteString(f.Kind + " " + f.Type)
		}
		b.WriteString(" |\n")
	}
	return []byte(b.String())
}

// ensureUniqueName returns a unique ZIP entry name by appending -1, -2, ...
// if the given name already exists in the `used` set. It mutates `used`.
func ensureUniqueName(name string, used map[string]struct{}) string {
	if _, ok := used[name]; !ok {
		used[name] = struct{}{}
		return name
	}
	base := name
	ext := ""
	if i := strings.LastIndex(name, "."); i > strings.LastIndex(name, "/")+1 {
		base, ext = name[:i], name[i:]
	}
	for n := 1; ; n++ {
		alt := base + "-" + strconv.Itoa(n) + ext
		if _, ok := used[alt]; !ok {
			used[alt] = struct{}{}
			return alt
		}
	}
}
