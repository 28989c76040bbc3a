package navigate

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"class-browser/internal/archive"
	"class-browser/internal/cache"
	"class-browser/internal/index"
	"class-browser/internal/ziputil"
)

func openJar(t *testing.T, files map[string]string) archive.Archive {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.jar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		if err := ziputil.WriteFile(zw, name, []byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	a, err := archive.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func scenario(t *testing.T) *Resolver {
	t.Helper()
	a := openJar(t, map[string]string{
		"a/B.class": "\xca\xfe\xba\xbe\x00",
		"a/C.txt":   "hello\r\nworld",
	})
	store := cache.New()
	store.Record("a/B.java", "class B {}")
	return &Resolver{Archive: a, Cache: store, Convention: index.Java}
}

func TestResolveScenario(t *testing.T) {
	r := scenario(t)

	c, err := r.Resolve([]string{"app.jar", "a", "B.class"})
	if err != nil {
		t.Fatalf("resolve B.class: %v", err)
	}
	if c.Kind != Decompiled || c.Text != "class B {}" || c.Name != "B.java" || c.Entry != "a/B.class" {
		t.Fatalf("B.class content = %+v", c)
	}

	c, err = r.Resolve([]string{"app.jar", "a", "C.txt"})
	if err != nil {
		t.Fatalf("resolve C.txt: %v", err)
	}
	if c.Kind != Raw || string(c.Data) != "hello\r\nworld" || c.Text != "hello\nworld" || c.Binary {
		t.Fatalf("C.txt content = %+v", c)
	}

	_, err = r.Resolve([]string{"app.jar", "a", "Z.class"})
	var nf *EntryNotFoundError
	if !errors.As(err, &nf) || nf.Entry != "a/Z.class" {
		t.Fatalf("Z.class err = %v, want EntryNotFoundError", err)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := scenario(t)
	path := []string{"app.jar", "a", "C.txt"}
	first, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestResolveEmptyAndDirectory(t *testing.T) {
	r := scenario(t)
	var nf *EntryNotFoundError
	if _, err := r.Resolve(nil); !errors.As(err, &nf) {
		t.Fatalf("empty path err = %v", err)
	}
	if _, err := r.Resolve([]string{"app.jar", "a"}); !errors.As(err, &nf) {
		t.Fatalf("directory path err = %v", err)
	}
}

func TestResolveMissingAndPending(t *testing.T) {
	a := openJar(t, map[string]string{"a/B.class": "\xca\xfe\xba\xbe"})
	pending := true
	r := &Resolver{Archive: a, Cache: cache.New(), Pending: func() bool { return pending }}
	path := []string{"app.jar", "a", "B.class"}

	if _, err := r.Resolve(path); !errors.Is(err, ErrNotReady) {
		t.Fatalf("pending err = %v, want ErrNotReady", err)
	}

	pending = false
	_, err := r.Resolve(path)
	var cm *ContentMissingError
	if !errors.As(err, &cm) || cm.Source != "a/B.java" {
		t.Fatalf("finished err = %v, want ContentMissingError", err)
	}
}

func TestResolveRootOfZipIsRaw(t *testing.T) {
	r := scenario(t)
	c, err := r.Resolve([]string{"app.jar"})
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	raw, _ := os.ReadFile(r.Archive.Path())
	if c.Kind != Raw || !c.Binary || string(c.Data) != string(raw) || c.Name != "app.jar" {
		t.Fatalf("root content kind=%s binary=%v name=%s", c.Kind, c.Binary, c.Name)
	}
}

func TestResolveRootSingleFile(t *testing.T) {
	dir := t.TempDir()
	classPath := filepath.Join(dir, "B.class")
	if err := os.WriteFile(classPath, []byte("\xca\xfe\xba\xbe"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := archive.Open(classPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := &Resolver{Archive: a, Cache: cache.New()}
	var ue *UnsupportedEntryError
	if _, err := r.Resolve([]string{"B.class"}); !errors.As(err, &ue) {
		t.Fatalf("class root err = %v, want UnsupportedEntryError", err)
	}

	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err = archive.Open(txtPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r = &Resolver{Archive: a, Cache: cache.New()}
	c, err := r.Resolve([]string{"notes.txt"})
	if err != nil || c.Text != "plain" {
		t.Fatalf("text root = %+v, %v", c, err)
	}
}

func TestResolveRootOfDirectoryFails(t *testing.T) {
	a, err := archive.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := &Resolver{Archive: a, Cache: cache.New()}
	var re *archive.ReadError
	if _, err := r.Resolve([]string{a.Name()}); !errors.As(err, &re) {
		t.Fatalf("dir root err = %v, want ReadError", err)
	}
}
