// Package main provides the class-browser CLI: open a JAR/ZIP, a class
// directory or a single file, and browse it as a tree with decompiled
// sources.
//
// Commands:
//   - tree   : class-browser [flags] tree <archive> [dir]
//   - show   : class-browser [flags] show [-outline] <archive> <entry>
//   - pick   : class-browser [flags] pick <archive>
//   - export : class-browser [flags] export <archive> <out.zip>
//   - diff   : class-browser [flags] diff <old-archive> <new-archive> <entry>
//
// Every failure prints one line on stderr and exits non-zero.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"class-browser/internal/classfile"
	"class-browser/internal/config"
	"class-browser/internal/decompiler"
	"class-browser/internal/index"
	"class-browser/internal/logging"
	"class-browser/internal/metrics"
	"class-browser/internal/navigate"
	"class-browser/internal/session"
	"class-browser/internal/tree"
)

const progName = "class-browser"

// errUsage marks argument errors; they exit with status 2.
var errUsage = errors.New("usage")

// globalOptions are the flags accepted before the command name.
type globalOptions struct {
	configPath  string
	logLevel    string
	engine      string
	background  bool
	metricsFile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	g, rest, err := parseGlobal(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := loadConfig(g)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return 1
	}
	if err := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, OutputPath: "stderr"}); err != nil {
		logging.InitDefault()
	}
	defer logging.Sync()

	err = dispatch(context.Background(), cfg, rest[0], rest[1:], stdout)
	if cfg.MetricsFile != "" {
		if merr := metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			logging.L().Warn("metrics not written", zap.String("path", cfg.MetricsFile), zap.Error(merr))
		}
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		usage(stderr)
		return 2
	default:
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return 1
	}
}

func parseGlobal(args []string, stderr io.Writer) (globalOptions, []string, error) {
	var g globalOptions
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	fs.StringVar(&g.configPath, "config", "", "config file (default "+config.Path()+")")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&g.engine, "engine", "", "decompiler engine: classfile or exec")
	fs.BoolVar(&g.background, "background", false, "return once the tree is built; decompile behind it")
	fs.StringVar(&g.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	if err := fs.Parse(args); err != nil {
		return g, nil, err
	}
	return g, fs.Args(), nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.engine != "" {
		cfg.Decompiler.Engine = g.engine
	}
	if g.background {
		cfg.Background = true
	}
	if g.metricsFile != "" {
		cfg.MetricsFile = g.metricsFile
	}
	return cfg, cfg.Validate()
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `%[1]s - browse compiled archives with decompiled sources

Usage:
  %[1]s [flags] tree <archive> [dir]
  %[1]s [flags] show [-outline] <archive> <entry>
  %[1]s [flags] pick <archive>
  %[1]s [flags] export <archive> <out.zip>
  %[1]s [flags] diff <old-archive> <new-archive> <entry>

<archive> is a .jar/.zip/.war/.ear file, a class directory or a single file.
<entry> is a path inside the archive (e.g. com/acme/Server.class); use "" for
the archive itself.

Flags:
  -config path        config file (default %[2]s)
  -log-level level    debug, info, warn, error
  -engine name        decompiler engine: classfile or exec
  -background         return once the tree is built; decompile behind it
  -metrics-file path  write Prometheus metrics to this file on exit
`, progName, config.Path())
}

func dispatch(ctx context.Context, cfg *config.Config, cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "tree":
		return cmdTree(ctx, cfg, args, stdout)
	case "show":
		return cmdShow(ctx, cfg, args, stdout)
	case "pick":
		return cmdPick(ctx, cfg, args, stdout)
	case "export":
		return cmdExport(ctx, cfg, args, stdout)
	case "diff":
		return cmdDiff(ctx, cfg, args, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// newSession builds a session wired to the configured engine and naming
// convention.
func newSession(cfg *config.Config) *session.Session {
	log := logging.L()
	conv := index.NewJava(cfg.ClassSuffix, cfg.SourceSuffix)
	return session.New(session.Options{
		Engine:     newEngine(cfg, conv, log),
		Convention: conv,
		Tree:       tree.Options{MetadataDir: cfg.MetadataDir},
		Background: cfg.Background,
		Log:        log,
	})
}

func newEngine(cfg *config.Config, conv index.Convention, log *zap.Logger) decompiler.Engine {
	if cfg.Decompiler.Engine == config.EngineExec {
		return decompiler.NewExec(cfg.Decompiler.Command, cfg.SourceSuffix, log)
	}
	return classfile.NewEngine(conv, log)
}

func openSession(ctx context.Context, cfg *config.Config, path string) (*session.Session, error) {
	s := newSession(cfg)
	if err := s.Open(ctx, filepath.Clean(path)); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveEntry resolves entry ("" for the archive itself). In background
// mode a not-ready source is retried once decompilation has finished.
func resolveEntry(ctx context.Context, s *session.Session, entry string) (navigate.Content, error) {
	sel := tree.Selection(s.Tree(), entry)
	c, err := s.Resolve(sel)
	if errors.Is(err, navigate.ErrNotReady) {
		if werr := s.Wait(ctx); werr != nil {
			return c, werr
		}
		c, err = s.Resolve(sel)
	}
	return c, err
}

func cmdTree(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 1 && len(args) != 2 {
		return fmt.Errorf("%w: tree takes an archive and an optional directory", errUsage)
	}
	s, err := openSession(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	root := s.Tree()
	if len(args) == 2 {
		dir := strings.Trim(args[1], "/")
		if dir != "" {
			if root = tree.Find(root, strings.Split(dir, "/")); root == nil || root.Leaf {
				return &navigate.EntryNotFoundError{Entry: args[1]}
			}
		}
	}
	return renderTree(stdout, root)
}

func cmdShow(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	withOutline := fs.Bool("outline", false, "print a member outline instead of the source")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: show takes an archive and an entry", errUsage)
	}

	s, err := openSession(ctx, cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := resolveEntry(ctx, s, fs.Arg(1))
	if err != nil {
		return err
	}
	return writeContent(stdout, c, *withOutline)
}

func cmdExport(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: export takes an archive and an output zip", errUsage)
	}
	s, err := openSession(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Wait(ctx); err != nil {
		return err
	}
	if err := s.Export(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d sources to %s\n", s.Cache().Len(), args[1])
	return nil
}
