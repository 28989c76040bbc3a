// Package decompiler defines the contract between the browser and an
// external decompiler engine.
//
// The browser supplies bytecode on request (BytecodeProvider) and receives
// one callback per decompiled class (Sink). Engines that expose a wider
// result-saving surface are adapted through Bridge; only class entries reach
// the browser, everything else is a no-op.
package decompiler

import (
	"context"
	"fmt"

	"class-browser/internal/archive"
)

// BytecodeProvider serves raw class bytes. An empty internalPath asks for
// the whole file at archivePath.
type BytecodeProvider interface {
	Bytecode(archivePath, internalPath string) ([]byte, error)
}

// Sink receives one decompiled source per class. entryName is the source
// entry name inside the archive (e.g. "a/B.java").
type Sink interface {
	ClassDecompiled(entryName, source string)
}

// Job is one whole-archive decompilation request.
type Job struct {
	ArchivePath string
	// Classes lists the compiled entries to decompile, nested artifacts
	// included. Empty for a single-file archive.
	Classes  []string
	Provider BytecodeProvider
	Sink     Sink
}

// Engine decompiles a whole archive, pushing results into job.Sink.
// Implementations should stop early when ctx is cancelled.
type Engine interface {
	Name() string
	Decompile(ctx context.Context, job Job) error
}

// ArchiveProvider serves bytecode from an already opened archive.
type ArchiveProvider struct {
	Archive archive.Archive
}

func (p ArchiveProvider) Bytecode(archivePath, internalPath string) ([]byte, error) {
	if p.Archive == nil {
		return nil, fmt.Errorf("bytecode %s: no archive loaded", archivePath)
	}
	if archivePath != "" && archivePath != p.Archive.Path() {
		return nil, fmt.Errorf("bytecode %s: archive %s is loaded", archivePath, p.Archive.Path())
	}
	if internalPath == "" {
		return p.Archive.Raw()
	}
	return p.Archive.ReadEntry(internalPath)
}
