package main

import (
	"archive/zip"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"class-browser/internal/ziputil"
)

func writeJar(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for n, body := range files {
		if err := ziputil.WriteFile(zw, n, []byte(body)); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

// runCLI runs the CLI with an isolated config home.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func sampleJar(t *testing.T) string {
	return writeJar(t, "app.jar", map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
		"a/B.class":            "\xca\xfe\xba\xbe",
		"a/B$1.class":          "\xca\xfe\xba\xbe",
		"README.txt":           "hello\r\n",
	})
}

func TestRunTree(t *testing.T) {
	code, out, errOut := runCLI(t, "tree", sampleJar(t))
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "app.jar\n" +
		"  META-INF/\n" +
		"    MANIFEST.MF\n" +
		"  a/\n" +
		"    B.class\n" +
		"  README.txt\n"
	if out != want {
		t.Fatalf("tree output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunTreeSubdirectory(t *testing.T) {
	jar := sampleJar(t)
	code, out, errOut := runCLI(t, "tree", jar, "a/")
	if code != 0 || out != "a\n  B.class\n" {
		t.Fatalf("exit %d out %q err %q", code, out, errOut)
	}
	code, _, errOut = runCLI(t, "tree", jar, "README.txt")
	if code != 1 || errOut != "class-browser: entry not found: README.txt\n" {
		t.Fatalf("leaf as dir: exit %d err %q", code, errOut)
	}
}

func TestRunShowRaw(t *testing.T) {
	code, out, errOut := runCLI(t, "show", sampleJar(t), "README.txt")
	if code != 0 || out != "hello\n" {
		t.Fatalf("exit %d out %q err %q", code, out, errOut)
	}
}

func TestRunShowClassWithBuiltinEngine(t *testing.T) {
	code, out, errOut := runCLI(t, "show", sampleJar(t), "a/B.class")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "a/B.class could not be decompiled") {
		t.Fatalf("out = %q", out)
	}
}

func TestRunShowRootOfJarIsBinary(t *testing.T) {
	code, out, errOut := runCLI(t, "show", sampleJar(t), "")
	if code != 0 || !strings.HasPrefix(out, "app.jar: binary, ") {
		t.Fatalf("exit %d out %q err %q", code, out, errOut)
	}
}

func execConfig(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	script := `mkdir -p "$2/a" && printf 'package a;\npublic class B {\n    public void run() {}\n}\n' > "$2/a/B.java"`
	var cfg strings.Builder
	cfg.WriteString("decompiler:\n  engine: exec\n  command:\n")
	for _, arg := range []string{sh, "-c", script, "sh", "{archive}", "{out}"} {
		cfg.WriteString("    - '" + strings.ReplaceAll(arg, "'", "''") + "'\n")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunShowWithExecEngine(t *testing.T) {
	cfg := execConfig(t)
	jar := sampleJar(t)

	code, out, errOut := runCLI(t, "-config", cfg, "show", jar, "a/B.class")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "public void run() {}") {
		t.Fatalf("source = %q", out)
	}

	code, out, errOut = runCLI(t, "-config", cfg, "-background", "show", "-outline", jar, "a/B.class")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "class a.B\n     3  run()\n" {
		t.Fatalf("outline = %q", out)
	}
}

func TestRunExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "src.zip")
	code, stdout, errOut := runCLI(t, "export", sampleJar(t), out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if stdout != "wrote 2 sources to "+out+"\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer zr.Close()
	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}
	if !found["src/a/B.java"] || !found["src/a/B$1.java"] {
		t.Fatalf("export entries = %v", found)
	}
}

func TestRunDiff(t *testing.T) {
	oldJar := writeJar(t, "old.jar", map[string]string{"README.txt": "hello\nsame\n"})
	newJar := writeJar(t, "new.jar", map[string]string{"README.txt": "world\nsame\n", "NEW.txt": "fresh\n"})

	code, out, errOut := runCLI(t, "diff", oldJar, newJar, "README.txt")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"--- " + oldJar + "!README.txt\n", "-hello\n", "+world\n", " same\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("diff missing %q:\n%s", want, out)
		}
	}

	code, out, _ = runCLI(t, "diff", oldJar, newJar, "NEW.txt")
	if code != 0 || !strings.Contains(out, "--- /dev/null\n+++ NEW.txt\n") || !strings.Contains(out, "+fresh\n") {
		t.Fatalf("added diff exit %d:\n%s", code, out)
	}

	code, _, errOut = runCLI(t, "diff", oldJar, newJar, "GONE.txt")
	if code != 1 || !strings.Contains(errOut, "entry not found: GONE.txt") {
		t.Fatalf("missing on both sides: exit %d err %q", code, errOut)
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
		err  string
	}{
		{"no command", nil, 2, "Usage:"},
		{"unknown command", []string{"frobnicate"}, 2, `unknown command "frobnicate"`},
		{"wrong arity", []string{"tree"}, 2, "tree takes an archive and an optional directory"},
		{"missing archive", []string{"tree", "/nonexistent/app.jar"}, 1, "class-browser: read archive /nonexistent/app.jar"},
		{"bad engine", []string{"-engine", "javap", "tree", "x.jar"}, 1, `unknown decompiler engine "javap"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, c.args...)
			if code != c.code || !strings.Contains(errOut, c.err) {
				t.Fatalf("exit %d (want %d), stderr %q (want %q)", code, c.code, errOut, c.err)
			}
		})
	}
}

func TestRunEntryNotFoundIsOneLine(t *testing.T) {
	code, out, errOut := runCLI(t, "show", sampleJar(t), "a/Z.class")
	if code != 1 || out != "" {
		t.Fatalf("exit %d out %q", code, out)
	}
	if errOut != "class-browser: entry not found: a/Z.class\n" {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunWritesMetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "cb.prom")
	code, _, errOut := runCLI(t, "-metrics-file", metricsPath, "tree", sampleJar(t))
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), "classbrowser_sessions_opened_total") {
		t.Fatalf("metrics file missing session counter:\n%s", data)
	}
}
