package diff

import (
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	a := []byte("class B {\n    int x;\n}\n")
	b := []byte("class B {\n    long x;\n}\n")
	body, oversize := Unified("a/B.java", "a/B.java", a, b, Options{})
	if oversize {
		t.Fatalf("unexpected oversize")
	}
	for _, want := range []string{"--- a/a/B.java\n", "+++ b/a/B.java\n", "-    int x;\n", "+    long x;\n", " class B {\n"} {
		if !strings.Contains(body, want) {
			t.Fatalf("patch missing %q:\n%s", want, body)
		}
	}
}

func TestUnifiedIdenticalIsEmpty(t *testing.T) {
	same := []byte("x\ny\n")
	if body, _ := Unified("f", "f", same, same, Options{}); body != "" {
		t.Fatalf("identical inputs produced %q", body)
	}
}

func TestUnifiedNoPrefixAndOversize(t *testing.T) {
	body, oversize := Unified("old.txt", "new.txt", []byte("aaaa"), []byte("bbbb"), Options{MaxBytes: 4, NoPrefix: true})
	if !oversize {
		t.Fatalf("expected oversize")
	}
	if body != "--- old.txt\n+++ new.txt\n@@\n# diff omitted (oversize)\n" {
		t.Fatalf("placeholder = %q", body)
	}
}

func TestAddedAndRemoved(t *testing.T) {
	added, _ := Added("B.java", []byte("one\ntwo\n"), Options{})
	if !strings.HasPrefix(added, "--- /dev/null\n+++ b/B.java\n") || !strings.Contains(added, "+one\n+two\n") {
		t.Fatalf("added = %q", added)
	}
	removed, _ := Removed("B.java", []byte("one\n"), Options{NoPrefix: true})
	if !strings.HasPrefix(removed, "--- B.java\n+++ /dev/null\n") || !strings.Contains(removed, "-one\n") {
		t.Fatalf("removed = %q", removed)
	}
}

func TestSplitLinesKeepNL(t *testing.T) {
	got := splitLinesKeepNL("a\nb")
	if len(got) != 2 || got[0] != "a\n" || got[1] != "b" {
		t.Fatalf("got %q", got)
	}
	if got := splitLinesKeepNL("a\n"); len(got) != 1 {
		t.Fatalf("trailing newline should not add an empty line: %q", got)
	}
	if got := splitLinesKeepNL(""); len(got) != 0 {
		t.Fatalf("empty input: %q", got)
	}
}
