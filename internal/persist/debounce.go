// Package persist provides a debounced writer for user state snapshots.
// Rapid bursts of habit toggles collapse into a single database write:
// each new snapshot replaces the pending one and restarts the idle timer,
// so only the latest state for a user is ever flushed.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/models"
)

// DefaultDebounceDelay is how long a user's state must stay idle before
// the pending snapshot is written.
const DefaultDebounceDelay = 500 * time.Millisecond

// FlushTimeout bounds each database write issued by the writer.
const FlushTimeout = 10 * time.Second

type pendingWrite struct {
	snap  models.Snapshot
	timer *time.Timer
}

// DebouncedWriter coalesces snapshot writes per user.
type DebouncedWriter struct {
	store database.SnapshotStore
	delay time.Duration
	log   *zap.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingWrite
	closed  bool
	wg      sync.WaitGroup
}

// NewDebouncedWriter creates a writer flushing through the given store.
// A non-positive delay falls back to DefaultDebounceDelay.
func NewDebouncedWriter(store database.SnapshotStore, delay time.Duration, log *zap.Logger) *DebouncedWriter {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DebouncedWriter{
		store:   store,
		delay:   delay,
		log:     log,
		pending: make(map[uuid.UUID]*pendingWrite),
	}
}

// Offer queues a snapshot for the user, replacing any pending one and
// restarting the idle timer. After Close it writes synchronously instead.
func (w *DebouncedWriter) Offer(userID uuid.UUID, snap models.Snapshot) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.write(userID, snap)
		return
	}

	if p, ok := w.pending[userID]; ok {
		p.snap = snap
		p.timer.Reset(w.delay)
		w.mu.Unlock()
		return
	}

	p := &pendingWrite{snap: snap}
	p.timer = time.AfterFunc(w.delay, func() {
		w.flushUser(userID)
	})
	w.pending[userID] = p
	w.mu.Unlock()
}

// Flush writes the user's pending snapshot immediately, if any.
func (w *DebouncedWriter) Flush(userID uuid.UUID) {
	w.flushUser(userID)
}

// Peek returns the user's pending snapshot without flushing it. The
// second result is false when nothing is queued.
func (w *DebouncedWriter) Peek(userID uuid.UUID) (models.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[userID]; ok {
		return p.snap, true
	}
	return models.Snapshot{}, false
}

// Pending reports whether the user has an unwritten snapshot queued.
func (w *DebouncedWriter) Pending(userID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pending[userID]
	return ok
}

// Close stops accepting debounced writes and flushes everything pending.
// It blocks until all in-flight writes complete.
func (w *DebouncedWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true

	remaining := make(map[uuid.UUID]models.Snapshot, len(w.pending))
	for userID, p := range w.pending {
		p.timer.Stop()
		remaining[userID] = p.snap
	}
	w.pending = make(map[uuid.UUID]*pendingWrite)
	w.mu.Unlock()

	for userID, snap := range remaining {
		w.write(userID, snap)
	}
	w.wg.Wait()
}

// flushUser removes the user's pending entry and writes it. Called from
// the timer goroutine and from Flush.
func (w *DebouncedWriter) flushUser(userID uuid.UUID) {
	w.mu.Lock()
	p, ok := w.pending[userID]
	if !ok {
		w.mu.Unlock()
		return
	}
	p.timer.Stop()
	delete(w.pending, userID)
	snap := p.snap
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	w.write(userID, snap)
}

func (w *DebouncedWriter) write(userID uuid.UUID, snap models.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), FlushTimeout)
	defer cancel()

	if err := w.store.Put(ctx, userID, snap); err != nil {
		w.log.Error("snapshot_flush_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	w.log.Debug("snapshot_flushed",
		zap.String("user_id", userID.String()),
		zap.Int("habit_count", len(snap.Habits)),
	)
}
