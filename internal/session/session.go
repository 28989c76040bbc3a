// Package session owns the single loaded archive: its tree, its decompiled
// output cache and the decompilation run that fills it.
//
// A session is Empty or Loaded. Opening while Loaded closes the previous
// archive first, so at most one archive is open and at most one
// decompilation run is in flight. Each open bumps the cache generation;
// results that a cancelled run delivers late are dropped by the cache.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"class-browser/internal/archive"
	"class-browser/internal/bundle"
	"class-browser/internal/cache"
	"class-browser/internal/classfile"
	"class-browser/internal/decompiler"
	"class-browser/internal/index"
	"class-browser/internal/logging"
	"class-browser/internal/metrics"
	"class-browser/internal/navigate"
	"class-browser/internal/tree"
)

// State is the session lifecycle state.
type State int

const (
	Empty State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "empty"
}

// ErrNoArchive is returned by operations that need a loaded archive.
var ErrNoArchive = errors.New("no archive loaded")

// Options configures a Session.
type Options struct {
	// Engine decompiles opened archives. Nil selects the built-in
	// classfile engine.
	Engine     decompiler.Engine
	Convention index.Convention
	Tree       tree.Options
	// Background makes Open return once the tree is built; decompilation
	// continues and Wait reports its outcome.
	Background bool
	Log        *zap.Logger
	// OpenArchive opens the container at a path. Nil selects archive.Open.
	OpenArchive func(path string) (archive.Archive, error)
}

// Session is safe for concurrent use. Open and Close are serialized.
type Session struct {
	opts  Options
	cache *cache.Store

	lifecycle sync.Mutex // serializes Open and Close

	mu       sync.RWMutex
	state    State
	id       uint64
	lastID   uint64
	arch     archive.Archive
	root     *tree.Node
	resolver *navigate.Resolver
	run      *run
}

// run is one decompilation run. err is valid once done is closed.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (r *run) pending() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// New returns an Empty session.
func New(opts Options) *Session {
	if opts.Convention == nil {
		opts.Convention = index.Java
	}
	if opts.Log == nil {
		opts.Log = logging.L()
	}
	if opts.OpenArchive == nil {
		opts.OpenArchive = archive.Open
	}
	if opts.Engine == nil {
		opts.Engine = classfile.NewEngine(opts.Convention, opts.Log)
	}
	return &Session{opts: opts, cache: cache.New()}
}

// Open loads the archive at path, replacing any loaded archive. On failure
// the session is left Empty and no partial tree is kept.
func (s *Session) Open(ctx context.Context, path string) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	closeErr := s.closeLocked()

	s.mu.Lock()
	s.lastID++
	id := s.lastID
	s.mu.Unlock()

	ctx = logging.WithSession(logging.WithLogger(ctx, s.opts.Log), id, path)
	log := logging.WithContext(ctx)
	if closeErr != nil {
		log.Warn("previous archive not closed cleanly", zap.Error(closeErr))
	}

	a, err := s.opts.OpenArchive(path)
	if err != nil {
		metrics.RecordSessionOpen("error")
		log.Warn("open failed", zap.Error(err))
		return err
	}

	gen := s.cache.Generation()
	parent := ctx
	if s.opts.Background {
		// The run outlives this call; Close cancels it.
		parent = context.WithoutCancel(ctx)
	}
	runCtx, cancel := context.WithCancel(parent)
	r := &run{cancel: cancel, done: make(chan struct{})}

	var (
		names []string
		root  *tree.Node
	)
	built := make(chan error, 1)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		var err error
		names, root, err = s.build(a)
		built <- err
		return err
	})
	g.Go(func() error {
		return s.decompile(gctx, a, gen)
	})
	go func() {
		r.err = g.Wait()
		close(r.done)
	}()

	if s.opts.Background {
		err = <-built
		if err != nil {
			<-r.done
		}
	} else {
		<-r.done
		err = r.err
	}
	if err != nil {
		cancel()
		a.Close()
		s.cache.Clear()
		metrics.RecordSessionOpen("error")
		log.Warn("open failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.state = Loaded
	s.id = id
	s.arch = a
	s.root = root
	s.run = r
	s.resolver = &navigate.Resolver{
		Archive:    a,
		Cache:      s.cache,
		Convention: s.opts.Convention,
		Pending:    r.pending,
	}
	s.mu.Unlock()

	metrics.RecordSessionOpen("ok")
	metrics.SetTreeSize(tree.Count(root), len(names))
	log.Info("archive opened",
		zap.String("kind", string(a.Kind())),
		zap.Int("entries", len(names)),
		zap.Bool("background", s.opts.Background))
	return nil
}

// build indexes a and builds its tree. A single-file archive is its own
// root with no children.
func (s *Session) build(a archive.Archive) ([]string, *tree.Node, error) {
	names, err := index.Archive(a, s.opts.Convention)
	if err != nil {
		return nil, nil, err
	}
	if a.Kind() == archive.KindFile {
		return names, tree.NewRoot(a.Name()), nil
	}
	return names, tree.Build(a.Name(), names, s.opts.Tree), nil
}

// decompile runs the engine over every compiled entry of a, nested classes
// included, writing into the cache generation gen.
func (s *Session) decompile(ctx context.Context, a archive.Archive, gen uint64) error {
	log := logging.WithContext(ctx)
	var classes []string
	if a.Kind() != archive.KindFile {
		entries, err := a.Entries()
		if err != nil {
			return err
		}
		classes = index.Compiled(entries, s.opts.Convention)
	}

	engine := s.opts.Engine
	start := time.Now()
	err := engine.Decompile(ctx, decompiler.Job{
		ArchivePath: a.Path(),
		Classes:     classes,
		Provider:    decompiler.ArchiveProvider{Archive: a},
		Sink:        s.cache.Writer(gen),
	})

	status := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		status = "cancelled"
	case err != nil:
		status = "error"
	}
	metrics.RecordDecompile(engine.Name(), status, time.Since(start))
	if err != nil {
		log.Warn("decompilation stopped", zap.String("engine", engine.Name()), zap.Error(err))
		return fmt.Errorf("decompile %s: %w", a.Name(), err)
	}
	log.Debug("decompilation finished",
		zap.String("engine", engine.Name()),
		zap.Int("classes", len(classes)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Close unloads the archive: it cancels and waits for an in-flight run,
// clears the cache and drops the tree. Closing an Empty session is a no-op.
func (s *Session) Close() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	s.mu.Lock()
	if s.state == Empty {
		s.mu.Unlock()
		return nil
	}
	r, a, id := s.run, s.arch, s.id
	s.state = Empty
	s.id = 0
	s.arch, s.root, s.resolver, s.run = nil, nil, nil, nil
	s.mu.Unlock()

	// Bump the generation first so anything the run still delivers is dropped.
	s.cache.Clear()
	if r != nil {
		r.cancel()
		<-r.done
	}
	metrics.SetTreeSize(0, 0)
	s.opts.Log.Debug("archive closed", zap.Uint64("session", id), zap.String("archive", a.Path()))
	return a.Close()
}

// Wait blocks until the current decompilation run ends and returns its
// error. It returns nil immediately when nothing is loaded.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.RLock()
	r := s.run
	s.mu.RUnlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resolve resolves a selection path against the loaded archive.
func (s *Session) Resolve(path []string) (navigate.Content, error) {
	s.mu.RLock()
	r := s.resolver
	s.mu.RUnlock()
	if r == nil {
		return navigate.Content{}, ErrNoArchive
	}
	return r.Resolve(path)
}

// Export writes every decompiled source to a ZIP at zipPath. It fails with
// navigate.ErrNotReady while decompilation is still running.
func (s *Session) Export(zipPath string) error {
	s.mu.RLock()
	a, r := s.arch, s.run
	s.mu.RUnlock()
	if a == nil {
		return ErrNoArchive
	}
	if r.pending() {
		return navigate.ErrNotReady
	}
	sources := make(map[string]string, s.cache.Len())
	for _, name := range s.cache.Names() {
		if text, ok := s.cache.Lookup(name); ok {
			sources[name] = text
		}
	}
	return bundle.WriteSources(zipPath, bundle.ExportOptions{
		Module:  a.Name(),
		Archive: a.Path(),
		Engine:  s.opts.Engine.Name(),
	}, sources)
}

// Tree returns the loaded tree, nil when Empty.
func (s *Session) Tree() *tree.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ID returns the loaded session's identifier, 0 when Empty. IDs increase
// with every open attempt.
func (s *Session) ID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// ArchivePath returns the loaded archive's path, "" when Empty.
func (s *Session) ArchivePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.arch == nil {
		return ""
	}
	return s.arch.Path()
}

// Cache returns the decompiled output cache. It lives as long as the session.
func (s *Session) Cache() *cache.Store {
	return s.cache
}
