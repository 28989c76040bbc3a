package bundle

import (
	"bytes"
	"strings"
	"text/template"
)

// ReadmeOptions configures README generation for a source export.
// All fields are rendered deterministically; no timestamps or environment data.
type ReadmeOptions struct {
	ModuleName string
	Archive    string
	Engine     string
	Sources    int
}

const exportReadmeTemplate = `
# {{.ModuleName}}

This archive holds the decompiled sources of **{{.ModuleName}}**, exported by *class-browser*.

## Layout
- **TOC.md** — table of contents: source path, line count, primary type.
- **manifest.json** — machine-readable listing of every source with its outline.
- **src/** — one source file per compiled class ({{.Sources}} file{{if ne .Sources 1}}s{{end}}).

## Provenance
{{if .Archive -}}
- Archive: ` + "`{{.Archive}}`" + `
{{end -}}
- Decompiler engine: {{if .Engine}}{{.Engine}}{{else}}unknown{{end}}

## Conventions
- Encoding: **UTF-8**; newlines: **\n** only.
- Source paths mirror the archive entries with the class suffix rewritten to the source suffix.
- Nested classes keep their own ` + "`Outer$Inner`" + ` files.
- Outline line numbers are **1-based**.
`

// GenerateReadme renders README.md for an export.
func GenerateReadme(opts ReadmeOptions) []byte {
	opts.ModuleName = moduleName(opts.ModuleName)

	t := template.Must(template.New("readme").Parse(exportReadmeTemplate))
	var buf bytes.Buffer
	_ = t.Execute(&buf, opts)
	// Normalize lines: strip trailing spaces and ensure only \n newlines.
	lines := strings.Split(strings.TrimLeft(buf.String(), "\n"), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out)
}

func moduleName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "class-browser export"
	}
	return name
}
