package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haneul-labs/chaja-cli/internal/bitap"
	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driving"
	"github.com/haneul-labs/chaja-cli/internal/hangul"
	"github.com/haneul-labs/chaja-cli/internal/index"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// Ensure Engine implements the interfaces.
var (
	_ driving.EngineService = (*Engine)(nil)
	_ driving.SearchService = (*Engine)(nil)
)

// Field names shared by the indexes.
const (
	fieldName    = "name"
	fieldContent = "content"
)

// entry is the engine's in-memory view of one indexed document.
// The decomposed projections are computed once at index time.
type entry struct {
	ref            domain.DocumentRef
	foldedName     string
	decomposedName string
	initials       string

	// content holds the hydrated preview. contentLoaded distinguishes
	// "not read yet" from "read and empty".
	content           string
	foldedContent     string
	decomposedContent string
	contentLoaded     bool
}

func newEntry(ref domain.DocumentRef) *entry {
	return &entry{
		ref:            ref,
		foldedName:     strings.ToLower(ref.Name),
		decomposedName: hangul.Decompose(ref.Name),
		initials:       hangul.Initials(ref.Name),
	}
}

// setContent installs a hydrated preview and its derived projections.
func (e *entry) setContent(preview string) {
	e.content = preview
	e.foldedContent = strings.ToLower(preview)
	e.decomposedContent = hangul.Decompose(preview)
	e.contentLoaded = true
}

func (e *entry) directValues() index.Values {
	return index.Values{
		fieldName:    {e.ref.Name},
		fieldContent: {e.content},
	}
}

func (e *entry) atomicValues() index.Values {
	return index.Values{
		fieldName:    {e.decomposedName},
		fieldContent: {e.decomposedContent},
	}
}

func (e *entry) initialValues() index.Values {
	return index.Values{
		fieldName: {e.initials},
	}
}

// Engine owns the in-memory search indexes and their lifecycle.
//
// Three indexes cover the query strategies: direct holds names and
// content as written, atomic holds their jamo decompositions, and
// initials holds only each name's leading consonants. All three add,
// update and remove documents in lockstep so a position identifies the
// same document everywhere.
type Engine struct {
	mu       sync.RWMutex
	settings domain.Settings
	entries  []*entry
	byPath   map[string]int
	direct   *index.Index
	atomic   *index.Index
	initials *index.Index
	hydrator *hydrator
	closed   bool
}

// NewEngine creates an engine over the given vault provider.
// The cache parameter is optional (can be nil); without it previews are
// re-read on every run.
func NewEngine(
	provider driven.DocumentProvider,
	cache driven.ContentCache,
	settings domain.Settings,
) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: document provider is required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine settings: %w", err)
	}

	e := &Engine{
		settings: settings,
		byPath:   make(map[string]int),
	}

	direct, atomic, initials, err := e.newIndexes()
	if err != nil {
		return nil, err
	}
	e.direct, e.atomic, e.initials = direct, atomic, initials

	h, err := newHydrator(provider, cache, settings, e.applyContent)
	if err != nil {
		return nil, err
	}
	e.hydrator = h

	return e, nil
}

// matcherConfig derives the bitap configuration from the current
// settings. Callers hold e.mu.
func (e *Engine) matcherConfig() bitap.Config {
	return bitap.Config{
		Location:           e.settings.Location,
		Distance:           e.settings.Distance,
		Threshold:          e.settings.Threshold,
		FindAllMatches:     e.settings.FindAllMatches,
		MinMatchCharLength: e.settings.MinMatchCharLength,
		IsCaseSensitive:    e.settings.IsCaseSensitive,
		IncludeMatches:     e.settings.IncludeMatches,
		IgnoreLocation:     e.settings.IgnoreLocation,
	}
}

// indexConfig derives the index configuration. Callers hold e.mu.
func (e *Engine) indexConfig() index.Config {
	return index.Config{
		Matcher:            e.matcherConfig(),
		FieldNormWeight:    e.settings.FieldNormWeight,
		UseExtendedGrammar: e.settings.UseExtendedGrammar,
	}
}

// newIndexes builds the three empty indexes. Callers hold e.mu or own
// the engine exclusively.
func (e *Engine) newIndexes() (direct, atomic, initials *index.Index, err error) {
	cfg := e.indexConfig()
	weighted := []index.Key{
		{Name: fieldName, Weight: e.settings.NameWeight},
		{Name: fieldContent, Weight: e.settings.ContentWeight},
	}

	direct, err = index.New(weighted, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create direct index: %w", err)
	}
	atomic, err = index.New(weighted, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create atomic index: %w", err)
	}
	initials, err = index.New([]index.Key{{Name: fieldName, Weight: 1}}, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create initials index: %w", err)
	}
	return direct, atomic, initials, nil
}

// Build replaces the index with the given document set.
// Entries are assembled off the lock in batches so searches keep
// serving the old index until the single swap at the end.
func (e *Engine) Build(ctx context.Context, refs []domain.DocumentRef) error {
	logger.Section("Index Build")
	defer logger.Timing("index build", time.Now())

	batchSize := e.Settings().BuildBatchSize

	entries := make([]*entry, 0, len(refs))
	byPath := make(map[string]int, len(refs))
	for i, ref := range refs {
		if i%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("build cancelled: %w", err)
			}
		}
		if ref.IsZero() {
			return fmt.Errorf("%w: document ref missing path", domain.ErrInvalidInput)
		}
		if _, dup := byPath[ref.Path]; dup {
			return fmt.Errorf("%w: duplicate path %q", domain.ErrInvalidInput, ref.Path)
		}

		ent := newEntry(ref)
		e.hydrator.prefill(ctx, ent)
		byPath[ref.Path] = len(entries)
		entries = append(entries, ent)
	}

	direct, atomic, initials, err := e.newIndexes()
	if err != nil {
		return err
	}
	for _, ent := range entries {
		direct.Add(ent.directValues())
		atomic.Add(ent.atomicValues())
		initials.Add(ent.initialValues())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}

	// Settings may have changed while assembling; re-apply so the new
	// indexes never run with a stale threshold.
	cfg := e.indexConfig()
	direct.UpdateConfig(cfg)
	atomic.UpdateConfig(cfg)
	initials.UpdateConfig(cfg)

	e.entries = entries
	e.byPath = byPath
	e.direct, e.atomic, e.initials = direct, atomic, initials

	logger.Info("Indexed %d documents", len(entries))
	return nil
}

// Add indexes a new document. Re-adding an indexed path is an error.
func (e *Engine) Add(ctx context.Context, ref domain.DocumentRef) error {
	if ref.IsZero() {
		return fmt.Errorf("%w: document ref missing path", domain.ErrInvalidInput)
	}

	ent := newEntry(ref)
	e.hydrator.prefill(ctx, ent)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}
	if _, exists := e.byPath[ref.Path]; exists {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, ref.Path)
	}

	e.byPath[ref.Path] = len(e.entries)
	e.entries = append(e.entries, ent)
	e.direct.Add(ent.directValues())
	e.atomic.Add(ent.atomicValues())
	e.initials.Add(ent.initialValues())

	logger.Debug("Indexed %s", ref.Path)
	return nil
}

// Update re-indexes an existing document after a content change.
// The stored preview is dropped unless the cache still has a matching
// entry; the next search re-hydrates.
func (e *Engine) Update(ctx context.Context, ref domain.DocumentRef) error {
	if ref.IsZero() {
		return fmt.Errorf("%w: document ref missing path", domain.ErrInvalidInput)
	}

	ent := newEntry(ref)
	e.hydrator.prefill(ctx, ent)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}
	pos, ok := e.byPath[ref.Path]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, ref.Path)
	}

	e.entries[pos] = ent
	e.updateIndexesAt(pos, ent)

	logger.Debug("Re-indexed %s", ref.Path)
	return nil
}

// Remove drops a document from the index by path.
func (e *Engine) Remove(ctx context.Context, path string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrEngineClosed
	}
	pos, ok := e.byPath[path]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	delete(e.byPath, path)
	e.entries = append(e.entries[:pos], e.entries[pos+1:]...)
	for i := pos; i < len(e.entries); i++ {
		e.byPath[e.entries[i].ref.Path] = i
	}
	e.direct.RemoveAt(pos)
	e.atomic.RemoveAt(pos)
	e.initials.RemoveAt(pos)
	e.mu.Unlock()

	e.hydrator.forget(ctx, path)

	logger.Debug("Dropped %s", path)
	return nil
}

// Rename moves a document to a new path. The hydrated preview survives
// because a move does not change content.
func (e *Engine) Rename(ctx context.Context, oldPath string, ref domain.DocumentRef) error {
	if ref.IsZero() {
		return fmt.Errorf("%w: document ref missing path", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrEngineClosed
	}
	pos, ok := e.byPath[oldPath]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotFound, oldPath)
	}
	if _, taken := e.byPath[ref.Path]; taken && ref.Path != oldPath {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, ref.Path)
	}

	old := e.entries[pos]
	ent := newEntry(ref)
	if old.contentLoaded {
		ent.setContent(old.content)
	}

	e.entries[pos] = ent
	delete(e.byPath, oldPath)
	e.byPath[ref.Path] = pos
	e.updateIndexesAt(pos, ent)
	e.mu.Unlock()

	e.hydrator.rename(ctx, oldPath, ref.Path)

	logger.Debug("Moved %s to %s", oldPath, ref.Path)
	return nil
}

// Apply routes a watcher change to the matching lifecycle operation.
// Out-of-order deliveries degrade gracefully: creating an indexed path
// updates it, touching an unknown path indexes it, deleting an unknown
// path is a no-op.
func (e *Engine) Apply(ctx context.Context, change domain.DocumentChange) error {
	switch change.Type {
	case domain.ChangeCreated:
		err := e.Add(ctx, change.Ref)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return e.Update(ctx, change.Ref)
		}
		return err

	case domain.ChangeModified:
		err := e.Update(ctx, change.Ref)
		if errors.Is(err, domain.ErrNotFound) {
			return e.Add(ctx, change.Ref)
		}
		return err

	case domain.ChangeDeleted:
		err := e.Remove(ctx, change.Ref.Path)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err

	case domain.ChangeRenamed:
		err := e.Rename(ctx, change.OldPath, change.Ref)
		if errors.Is(err, domain.ErrNotFound) {
			return e.Add(ctx, change.Ref)
		}
		return err

	default:
		return fmt.Errorf("%w: unknown change type %d", domain.ErrInvalidInput, change.Type)
	}
}

// Count returns the number of indexed documents.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Clear drops every indexed document. Cached previews are kept; they
// are keyed by modification time and re-validated on the next build.
func (e *Engine) Clear(ctx context.Context) error {
	direct, atomic, initials, err := e.newIndexes()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}

	e.entries = nil
	e.byPath = make(map[string]int)
	e.direct, e.atomic, e.initials = direct, atomic, initials

	logger.Info("Index cleared")
	return nil
}

// Settings returns a copy of the engine's current settings.
func (e *Engine) Settings() domain.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	settings := e.settings
	settings.Extensions = append([]string(nil), e.settings.Extensions...)
	return settings
}

// SetThreshold adjusts match strictness without rebuilding. It applies
// to the next search.
func (e *Engine) SetThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", domain.ErrInvalidInput, threshold)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}

	e.settings.Threshold = threshold
	cfg := e.indexConfig()
	e.direct.UpdateConfig(cfg)
	e.atomic.UpdateConfig(cfg)
	e.initials.UpdateConfig(cfg)

	logger.Info("Threshold set to %v", threshold)
	return nil
}

// Close releases engine resources. Further calls are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.hydrator.close()
	return nil
}

// updateIndexesAt re-extracts one position across all three indexes.
// Callers hold e.mu.
func (e *Engine) updateIndexesAt(pos int, ent *entry) {
	e.direct.UpdateAt(pos, ent.directValues())
	e.atomic.UpdateAt(pos, ent.atomicValues())
	e.initials.UpdateAt(pos, ent.initialValues())
}

// applyContent installs a hydrated preview delivered by the hydrator.
// Stale loads (the document changed since the read) are discarded.
func (e *Engine) applyContent(path string, modifiedAt time.Time, preview string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	pos, ok := e.byPath[path]
	if !ok {
		return
	}

	ent := e.entries[pos]
	if !ent.ref.ModifiedAt.Equal(modifiedAt) {
		logger.Debug("Hydration: %s changed during read, dropping preview", path)
		return
	}

	ent.setContent(preview)
	e.direct.UpdateAt(pos, ent.directValues())
	e.atomic.UpdateAt(pos, ent.atomicValues())
}
