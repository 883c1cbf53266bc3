package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

const (
	// watchBuffer absorbs event bursts (editor save storms) without
	// blocking fsnotify's delivery goroutine.
	watchBuffer = 64

	// renameWindow is how long a vanished path waits for its Create
	// counterpart before the rename degrades to a delete.
	renameWindow = 500 * time.Millisecond
)

// Watcher translates filesystem notifications under a vault root into
// document changes. Rename pairs (the old path vanishing, the new path
// appearing) are correlated into a single Renamed change.
type Watcher struct {
	provider *Provider

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// NewWatcher creates a watcher over the same tree as provider.
func NewWatcher(provider *Provider) *Watcher {
	return &Watcher{provider: provider}
}

// Watch starts delivering changes. The returned channel closes when ctx
// is cancelled or the watcher is closed. A watcher watches once.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, domain.ErrWatcherClosed
	}
	if w.fsw != nil {
		return nil, fmt.Errorf("%w: watch already running", domain.ErrInvalidInput)
	}
	if err := w.provider.Validate(ctx); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watchTree(fsw, w.provider.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	out := make(chan domain.DocumentChange, watchBuffer)
	s := &session{
		provider: w.provider,
		fsw:      fsw,
		out:      out,
		expired:  make(chan string, watchBuffer),
	}
	go s.run(ctx)

	logger.Info("Watching %s", w.provider.Root())
	return out, nil
}

// Close stops the watcher. It is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// watchTree registers every non-hidden directory under root.
func watchTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hiddenName(d.Name()) {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// pendingRename is an old path waiting for its Create counterpart.
type pendingRename struct {
	oldPath string
	timer   *time.Timer
}

// session is the state of one Watch call. The run loop is its only
// writer; rename expiry timers report back through the expired channel.
type session struct {
	provider *Provider
	fsw      *fsnotify.Watcher
	out      chan domain.DocumentChange
	expired  chan string
	pending  []pendingRename
}

func (s *session) run(ctx context.Context) {
	defer close(s.out)
	defer func() {
		for _, p := range s.pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			s.handleEvent(ctx, event)

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher: %v", err)

		case oldPath := <-s.expired:
			// No Create arrived within the window; the document left
			// the vault.
			if !s.dropPending(oldPath) {
				continue
			}
			s.emit(ctx, domain.DocumentChange{
				Type: domain.ChangeDeleted,
				Ref:  domain.DocumentRef{Path: oldPath, Name: nameOf(oldPath)},
			})
		}
	}
}

func (s *session) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if hiddenName(filepath.Base(path)) {
				return
			}
			s.adoptDir(ctx, path)
			return
		}
		if !s.provider.indexable(path) {
			return
		}
		ref := refFor(path, info)
		if oldPath, ok := s.takePending(); ok {
			s.emit(ctx, domain.DocumentChange{Type: domain.ChangeRenamed, Ref: ref, OldPath: oldPath})
			return
		}
		s.emit(ctx, domain.DocumentChange{Type: domain.ChangeCreated, Ref: ref})

	case event.Op.Has(fsnotify.Write):
		if !s.provider.indexable(path) {
			return
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		s.emit(ctx, domain.DocumentChange{Type: domain.ChangeModified, Ref: refFor(path, info)})

	case event.Op.Has(fsnotify.Remove):
		if !s.provider.indexable(path) {
			return
		}
		s.emit(ctx, domain.DocumentChange{
			Type: domain.ChangeDeleted,
			Ref:  domain.DocumentRef{Path: path, Name: nameOf(path)},
		})

	case event.Op.Has(fsnotify.Rename):
		if !s.provider.indexable(path) {
			return
		}
		// The old path is gone; park it until the Create for the new
		// path arrives or the window expires.
		timer := time.AfterFunc(renameWindow, func() {
			select {
			case s.expired <- path:
			case <-ctx.Done():
			}
		})
		s.pending = append(s.pending, pendingRename{oldPath: path, timer: timer})
	}
}

// adoptDir registers a newly created directory tree and surfaces any
// indexable files already inside it as Created changes.
func (s *session) adoptDir(ctx context.Context, root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && hiddenName(d.Name()) {
				return fs.SkipDir
			}
			return s.fsw.Add(path)
		}
		if !s.provider.indexable(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		s.emit(ctx, domain.DocumentChange{Type: domain.ChangeCreated, Ref: refFor(path, info)})
		return nil
	})
	if err != nil {
		logger.Warn("Watcher: adopt %s: %v", root, err)
	}
}

// takePending pops the oldest parked rename. Rename halves arrive in
// order, so FIFO pairs them correctly.
func (s *session) takePending() (string, bool) {
	if len(s.pending) == 0 {
		return "", false
	}
	first := s.pending[0]
	first.timer.Stop()
	s.pending = s.pending[1:]
	return first.oldPath, true
}

// dropPending removes one parked rename by old path. It reports false
// when a Create already claimed it.
func (s *session) dropPending(oldPath string) bool {
	for i, p := range s.pending {
		if p.oldPath == oldPath {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (s *session) emit(ctx context.Context, change domain.DocumentChange) {
	select {
	case s.out <- change:
	case <-ctx.Done():
	}
}
