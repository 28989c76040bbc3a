package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
decompiler:
  engine: exec
  command: [java, -jar, vineflower.jar, "{archive}", "{out}"]
metadata_dir: META-INF
background: true
log:
  level: debug
metrics_file: /tmp/cb.prom
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Decompiler.Engine != EngineExec || !reflect.DeepEqual(cfg.Decompiler.Command, []string{"java", "-jar", "vineflower.jar", "{archive}", "{out}"}) {
		t.Fatalf("decompiler = %+v", cfg.Decompiler)
	}
	if cfg.MetadataDir != "META-INF/" || !cfg.Background || cfg.MetricsFile != "/tmp/cb.prom" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Fatalf("log = %+v (format should keep its default)", cfg.Log)
	}
	if cfg.ClassSuffix != ".class" || cfg.SourceSuffix != ".java" {
		t.Fatalf("suffixes = %q %q", cfg.ClassSuffix, cfg.SourceSuffix)
	}
}

func TestLoadFileRejectsBadConfig(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{"decompiler: {engine: fernflower}\n", "unknown decompiler engine"},
		{"decompiler: {engine: exec}\n", "command is required"},
		{"class_suffix: class\n", "class_suffix"},
		{"decompiler: [\n", "parse"},
	}
	for _, c := range cases {
		_, err := LoadFile(writeConfig(t, c.body))
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("body %q: err = %v, want %q", c.body, err, c.want)
		}
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadReadsXDGPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if Path() != filepath.Join(xdg, "class-browser", "config.yaml") {
		t.Fatalf("Path = %s", Path())
	}
	if err := os.MkdirAll(filepath.Dir(Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("background: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Background {
		t.Fatalf("background not loaded")
	}
}
