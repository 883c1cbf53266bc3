package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/logger"
	"github.com/haneul-labs/chaja-cli/internal/preview"
)

// hydrationRate paces background reads so a burst of queries never
// saturates the disk under the editor the vault belongs to.
const hydrationRate = 20 * time.Millisecond

// hydrator reads document content in the background. Loaded previews
// are handed to the engine through the apply callback and persisted in
// the content cache for the next run.
type hydrator struct {
	provider   driven.DocumentProvider
	cache      driven.ContentCache
	pool       *ants.Pool
	limiter    *rate.Limiter
	batchSize  int
	previewLen int
	apply      func(path string, modifiedAt time.Time, text string)

	mu      sync.Mutex
	pending map[string]bool
}

func newHydrator(
	provider driven.DocumentProvider,
	cache driven.ContentCache,
	settings domain.Settings,
	apply func(path string, modifiedAt time.Time, text string),
) (*hydrator, error) {
	// A single worker keeps reads strictly sequential; batches queue
	// behind each other instead of racing for the disk.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("create hydration pool: %w", err)
	}

	return &hydrator{
		provider:   provider,
		cache:      cache,
		pool:       pool,
		limiter:    rate.NewLimiter(rate.Every(hydrationRate), 1),
		batchSize:  settings.HydrationBatchSize,
		previewLen: settings.PreviewLength,
		apply:      apply,
		pending:    make(map[string]bool),
	}, nil
}

// prefill installs a cached preview synchronously. Used at index time
// so unchanged documents stay content-searchable without a read.
func (h *hydrator) prefill(ctx context.Context, ent *entry) {
	if h.cache == nil {
		return
	}

	cached, ok, err := h.cache.Get(ctx, ent.ref.Path, ent.ref.ModifiedAt)
	if err != nil {
		logger.Debug("Hydration: cache get %s: %v", ent.ref.Path, err)
		return
	}
	if ok {
		ent.setContent(cached)
	}
}

// enqueue schedules background reads for the given documents. Paths
// already in flight are skipped.
func (h *hydrator) enqueue(refs []domain.DocumentRef) {
	if len(refs) == 0 {
		return
	}

	h.mu.Lock()
	fresh := make([]domain.DocumentRef, 0, len(refs))
	for _, ref := range refs {
		if h.pending[ref.Path] {
			continue
		}
		h.pending[ref.Path] = true
		fresh = append(fresh, ref)
	}
	h.mu.Unlock()

	if len(fresh) == 0 {
		return
	}
	logger.Debug("Hydration: enqueuing %d documents", len(fresh))

	for start := 0; start < len(fresh); start += h.batchSize {
		end := start + h.batchSize
		if end > len(fresh) {
			end = len(fresh)
		}
		batch := fresh[start:end]

		if err := h.pool.Submit(func() { h.readBatch(batch) }); err != nil {
			h.release(batch)
			logger.Warn("Hydration: submit failed: %v", err)
			return
		}
	}
}

func (h *hydrator) readBatch(refs []domain.DocumentRef) {
	ctx := context.Background()
	for _, ref := range refs {
		if err := h.limiter.Wait(ctx); err != nil {
			h.release(refs)
			return
		}
		h.readOne(ctx, ref)
	}
}

func (h *hydrator) readOne(ctx context.Context, ref domain.DocumentRef) {
	defer func() {
		h.mu.Lock()
		delete(h.pending, ref.Path)
		h.mu.Unlock()
	}()

	content, err := h.provider.ReadContent(ctx, ref.Path)
	if err != nil {
		// Apply an empty preview so the document stays searchable by
		// name and is not re-enqueued on every query.
		logger.Warn("Hydration: read %s: %v", ref.Path, err)
		h.apply(ref.Path, ref.ModifiedAt, "")
		return
	}

	text := preview.Extract(ref.Path, content, h.previewLen)
	h.apply(ref.Path, ref.ModifiedAt, text)

	if h.cache != nil {
		if cerr := h.cache.Put(ctx, ref.Path, ref.ModifiedAt, text); cerr != nil {
			logger.Debug("Hydration: cache put %s: %v", ref.Path, cerr)
		}
	}
}

// forget drops a removed document's cache entry and in-flight state.
func (h *hydrator) forget(ctx context.Context, path string) {
	h.mu.Lock()
	delete(h.pending, path)
	h.mu.Unlock()

	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, path); err != nil {
		logger.Debug("Hydration: cache delete %s: %v", path, err)
	}
}

// rename carries a cache entry over to a document's new path.
func (h *hydrator) rename(ctx context.Context, oldPath, newPath string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Rename(ctx, oldPath, newPath); err != nil {
		logger.Debug("Hydration: cache rename %s: %v", oldPath, err)
	}
}

func (h *hydrator) release(refs []domain.DocumentRef) {
	h.mu.Lock()
	for _, ref := range refs {
		delete(h.pending, ref.Path)
	}
	h.mu.Unlock()
}

func (h *hydrator) close() {
	h.pool.Release()
}
