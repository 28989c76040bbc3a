package bundle

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateReadmeDeterminism(t *testing.T) {
	opts := ReadmeOptions{ModuleName: "app.jar", Archive: "/tmp/app.jar", Engine: "classfile", Sources: 3}
	a := GenerateReadme(opts)
	b := GenerateReadme(opts)
	if !bytes.Equal(a, b) {
		t.Fatalf("readme not deterministic")
	}
	if !strings.HasSuffix(string(a), "\n") {
		t.Fatalf("readme must end with newline")
	}
	if strings.Contains(string(a), "\r") {
		t.Fatalf("readme must not contain \r")
	}
	for _, w := range []string{"# app.jar", "Layout", "Provenance", "Conventions", "`/tmp/app.jar`", "classfile", "3 files"} {
		if !strings.Contains(string(a), w) {
			t.Fatalf("missing marker %q in readme:\n%s", w, a)
		}
	}
}

func TestGenerateReadmeDefaults(t *testing.T) {
	out := string(GenerateReadme(ReadmeOptions{Sources: 1}))
	if !strings.HasPrefix(out, "# class-browser export\n") {
		t.Fatalf("default title missing:\n%s", out)
	}
	if strings.Contains(out, "Archive:") {
		t.Fatalf("archive line should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "(1 file)") || !strings.Contains(out, "engine: unknown") {
		t.Fatalf("defaults not rendered:\n%s", out)
	}
}
