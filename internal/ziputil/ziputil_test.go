package ziputil

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a/b/C.class", "a/b/C.class"},
		{"/a/../b/./c.txt", "b/c.txt"},
		{`C:\x\y.txt`, "x/y.txt"},
		{"META-INF/", "META-INF/"},
		{"../../", ""},
		{"com//acme///A.class", "com/acme/A.class"},
	}
	for _, tc := range cases {
		if got := SanitizePath(tc.in); got != tc.want {
			t.Fatalf("SanitizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteTextFixedTime(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := WriteDir(zw, "a"); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}
	if err := WriteText(zw, "a/b.txt", []byte("hi")); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if err := WriteText(zw, "..", []byte("x")); err == nil {
		t.Fatalf("expected error for empty sanitized name")
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("want 2 entries, got %d", len(zr.File))
	}
	if zr.File[0].Name != "a/" || !zr.File[0].FileInfo().IsDir() {
		t.Fatalf("dir entry wrong: %q", zr.File[0].Name)
	}
	if !zr.File[1].Modified.Equal(FixedZipTime) {
		t.Fatalf("timestamp not fixed: %v", zr.File[1].Modified)
	}
}
