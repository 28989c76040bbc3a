package decompiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"class-browser/internal/archive"
)

// Placeholders substituted in an ExecEngine command line.
const (
	ArchivePlaceholder = "{archive}"
	OutPlaceholder     = "{out}"
)

// ExecEngine runs an external command-line decompiler, e.g.
//
//	java -jar vineflower.jar {archive} {out}
//
// and reads the produced sources back. The tool may write loose source
// files under {out} or an archive of sources (the usual behavior when the
// input is a jar); both are handled. Only files ending in SourceSuffix are
// taken as sources.
type ExecEngine struct {
	Command      []string
	SourceSuffix string
	Log          *zap.Logger
}

// NewExec returns an ExecEngine for command collecting sourceSuffix files
// (".java" when empty).
func NewExec(command []string, sourceSuffix string, log *zap.Logger) *ExecEngine {
	if log == nil {
		log = zap.NewNop()
	}
	if sourceSuffix == "" {
		sourceSuffix = ".java"
	}
	return &ExecEngine{Command: command, SourceSuffix: sourceSuffix, Log: log}
}

func (e *ExecEngine) Name() string { return "exec" }

func (e *ExecEngine) Decompile(ctx context.Context, job Job) error {
	if len(e.Command) == 0 {
		return errors.New("exec decompiler: empty command")
	}
	out, err := os.MkdirTemp("", "class-browser-out-")
	if err != nil {
		return fmt.Errorf("exec decompiler: %w", err)
	}
	defer os.RemoveAll(out)

	args := make([]string, len(e.Command))
	for i, a := range e.Command {
		a = strings.ReplaceAll(a, ArchivePlaceholder, job.ArchivePath)
		args[i] = strings.ReplaceAll(a, OutPlaceholder, out)
	}
	e.Log.Debug("running decompiler", zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("exec decompiler %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	bridge := &Bridge{Sink: job.Sink, Log: e.Log}
	return collectOutput(ctx, out, e.SourceSuffix, bridge)
}

// collectOutput feeds every source found under dir to saver, descending
// into produced archives. Files are visited in sorted order.
func collectOutput(ctx context.Context, dir, suffix string, saver ResultSaver) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect decompiler output: %w", err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		switch {
		case archive.IsZipName(rel):
			if err := collectArchive(path, rel, suffix, saver); err != nil {
				return err
			}
		case strings.HasSuffix(rel, suffix):
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("collect decompiler output: %w", err)
			}
			qn := strings.TrimSuffix(rel, suffix)
			saver.SaveClassFile(dir, qn, rel, string(data))
			saver.SaveClassEntry(dir, "", qn, rel, string(data))
		default:
			saver.CopyFile(path, dir, rel)
		}
	}
	return nil
}

func collectArchive(path, archiveName, suffix string, saver ResultSaver) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()
	entries, err := a.Entries()
	if err != nil {
		return err
	}
	saver.CreateArchive(path, archiveName)
	defer saver.CloseArchive(path, archiveName)
	for _, e := range entries {
		switch {
		case e.IsDir:
			saver.SaveDirEntry(path, archiveName, e.Name)
		case strings.HasSuffix(e.Name, suffix):
			data, err := a.ReadEntry(e.Name)
			if err != nil {
				return err
			}
			saver.SaveClassEntry(path, archiveName, strings.TrimSuffix(e.Name, suffix), e.Name, string(data))
		default:
			saver.CopyEntry(path, path, archiveName, e.Name)
		}
	}
	return nil
}
