package classfile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"class-browser/internal/decompiler"
	"class-browser/internal/index"
)

// Engine is a decompiler.Engine that renders declaration skeletons for every
// class in a job. Classes that fail to parse still produce a source entry
// carrying the error, so every submitted class ends up in the sink.
type Engine struct {
	Convention index.Convention
	Log        *zap.Logger
}

var _ decompiler.Engine = (*Engine)(nil)

// NewEngine returns an Engine for conv (index.Java when nil).
func NewEngine(conv index.Convention, log *zap.Logger) *Engine {
	if conv == nil {
		conv = index.Java
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Convention: conv, Log: log}
}

func (e *Engine) Name() string { return "classfile" }

func (e *Engine) Decompile(ctx context.Context, job decompiler.Job) error {
	for _, name := range job.Classes {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := job.Provider.Bytecode(job.ArchivePath, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		job.Sink.ClassDecompiled(e.Convention.SourceName(name), e.source(name, data))
	}
	return nil
}

func (e *Engine) source(name string, data []byte) string {
	c, err := Parse(data)
	if err != nil {
		e.Log.Warn("class not decompiled", zap.String("entry", name), zap.Error(err))
		return fmt.Sprintf("// %s could not be decompiled: %v\n", name, err)
	}
	return Render(c)
}
