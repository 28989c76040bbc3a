package decompiler

import (
	"go.uber.org/zap"
)

// ResultSaver is the full result surface a decompiler may drive while it
// writes out an archive.
type ResultSaver interface {
	SaveFolder(path string)
	CopyFile(source, path, entryName string)
	SaveClassFile(path, qualifiedName, entryName, content string)
	CreateArchive(path, archiveName string)
	SaveDirEntry(path, archiveName, entryName string)
	CopyEntry(source, path, archiveName, entryName string)
	SaveClassEntry(path, archiveName, qualifiedName, entryName, content string)
	CloseArchive(path, archiveName string)
}

// Bridge adapts a ResultSaver-driven engine to a Sink. Only
// SaveClassEntry produces output.
type Bridge struct {
	Sink Sink
	Log  *zap.Logger
}

var _ ResultSaver = (*Bridge)(nil)

func (b *Bridge) SaveClassEntry(path, archiveName, qualifiedName, entryName, content string) {
	if b.Log != nil {
		b.Log.Debug("decompiled", zap.String("entry", entryName))
	}
	b.Sink.ClassDecompiled(entryName, content)
}

func (*Bridge) SaveFolder(string)                            {}
func (*Bridge) CopyFile(string, string, string)              {}
func (*Bridge) SaveClassFile(string, string, string, string) {}
func (*Bridge) CreateArchive(string, string)                 {}
func (*Bridge) SaveDirEntry(string, string, string)          {}
func (*Bridge) CopyEntry(string, string, string, string)     {}
func (*Bridge) CloseArchive(string, string)                  {}
