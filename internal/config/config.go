package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine names accepted in Decompiler.Engine.
const (
	EngineClassfile = "classfile"
	EngineExec      = "exec"
)

// Decompiler selects and configures the decompiler engine.
type Decompiler struct {
	Engine string `yaml:"engine"`
	// Command is the external decompiler command line for the exec engine,
	// with {archive} and {out} placeholders.
	Command []string `yaml:"command,omitempty"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds all configuration options
type Config struct {
	Decompiler   Decompiler `yaml:"decompiler"`
	MetadataDir  string     `yaml:"metadata_dir"`
	ClassSuffix  string     `yaml:"class_suffix"`
	SourceSuffix string     `yaml:"source_suffix"`
	// Background returns from open as soon as the tree is built and lets
	// decompilation finish behind it.
	Background  bool   `yaml:"background"`
	Log         Log    `yaml:"log"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Decompiler:   Decompiler{Engine: EngineClassfile},
		MetadataDir:  "META-INF/",
		ClassSuffix:  ".class",
		SourceSuffix: ".java",
		Log:          Log{Level: "warn", Format: "console"},
	}
}

// configPath returns the path to the config file
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "class-browser", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "class-browser", "config.yaml")
}

// Load loads config from the default path, falling back to defaults when the
// file is missing. A file that exists but does not parse or validate is an
// error.
func Load() (*Config, error) {
	cfg, err := LoadFile(configPath())
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile loads config from path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	switch c.Decompiler.Engine {
	case EngineClassfile:
	case EngineExec:
		if len(c.Decompiler.Command) == 0 {
			return errors.New("decompiler.command is required for the exec engine")
		}
	default:
		return fmt.Errorf("unknown decompiler engine %q", c.Decompiler.Engine)
	}
	for field, v := range map[string]string{"class_suffix": c.ClassSuffix, "source_suffix": c.SourceSuffix} {
		if !strings.HasPrefix(v, ".") || len(v) < 2 {
			return fmt.Errorf("%s must start with '.', got %q", field, v)
		}
	}
	if c.MetadataDir != "" && !strings.HasSuffix(c.MetadataDir, "/") {
		c.MetadataDir += "/"
	}
	return nil
}

// Path returns the config file path (for help text)
func Path() string {
	return configPath()
}
