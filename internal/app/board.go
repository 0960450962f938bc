package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
)

// DefaultPollInterval is how often the board re-reads the store when the
// store cannot push changes
const DefaultPollInterval = 500 * time.Millisecond

// Board is the public board reader. It only ever reads the store, on its own
// schedule, and pushes what it read to viewer connections.
type Board struct {
	store    store.Store
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger

	viewers   map[string]ClientConnection
	viewersMu sync.RWMutex

	last    domain.BoardPayload
	hasLast bool
	lastMu  sync.Mutex
}

// NewBoard creates a board reader for the store
func NewBoard(st store.Store, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) *Board {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Board{
		store:    st,
		clock:    clock,
		interval: interval,
		logger:   logger,
		viewers:  make(map[string]ClientConnection),
	}
}

// Run reads the store until ctx is done. Stores implementing store.Watcher
// drive refreshes with change events; others are polled.
func (b *Board) Run(ctx context.Context) {
	if w, ok := b.store.(store.Watcher); ok {
		changes, err := w.Watch(ctx)
		if err == nil {
			b.logger.Info("board following store changes")
			b.follow(ctx, changes)
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("store change feed ended, falling back to polling")
		} else {
			b.logger.Warn("store watch failed, falling back to polling", "error", err)
		}
	}

	b.poll(ctx)
}

func (b *Board) follow(ctx context.Context, changes <-chan struct{}) {
	b.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			b.Refresh(ctx)
		}
	}
}

func (b *Board) poll(ctx context.Context) {
	b.logger.Info("board polling store", "interval", b.interval)

	ticker := b.clock.NewTicker(b.interval)
	defer ticker.Stop()

	b.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			b.Refresh(ctx)
		}
	}
}

// Refresh reads the store once and broadcasts to viewers if what it read
// differs from the previous read. It reports whether a broadcast happened.
func (b *Board) Refresh(ctx context.Context) bool {
	payload := domain.BoardPayload{}
	state, err := b.store.Load(ctx)
	if err != nil {
		b.logger.Debug("board read found no game", "error", err)
	} else {
		payload.State = &state
		payload.Configured = true
	}

	b.lastMu.Lock()
	changed := !b.hasLast || !samePayload(b.last, payload)
	b.last = payload
	b.hasLast = true
	b.lastMu.Unlock()

	if changed {
		b.broadcast(domain.NewEvent(domain.EventBoard, payload))
	}
	return changed
}

// Current returns the last read, if any
func (b *Board) Current() (domain.BoardPayload, bool) {
	b.lastMu.Lock()
	defer b.lastMu.Unlock()
	return b.last, b.hasLast
}

// RegisterViewer registers a viewer and sends it the last read
func (b *Board) RegisterViewer(viewerID string, viewer ClientConnection) {
	b.viewersMu.Lock()
	b.viewers[viewerID] = viewer
	b.viewersMu.Unlock()

	if payload, ok := b.Current(); ok {
		if err := viewer.Send(domain.NewEvent(domain.EventBoard, payload)); err != nil {
			b.logger.Debug("failed to send to viewer", "viewerID", viewerID, "error", err)
		}
	}
}

// UnregisterViewer removes a viewer
func (b *Board) UnregisterViewer(viewerID string) {
	b.viewersMu.Lock()
	defer b.viewersMu.Unlock()
	delete(b.viewers, viewerID)
}

// ViewerCount returns the number of viewers
func (b *Board) ViewerCount() int {
	b.viewersMu.RLock()
	defer b.viewersMu.RUnlock()
	return len(b.viewers)
}

// Close closes all viewer connections
func (b *Board) Close() {
	b.viewersMu.Lock()
	defer b.viewersMu.Unlock()

	for _, viewer := range b.viewers {
		viewer.Close()
	}
	b.viewers = make(map[string]ClientConnection)
}

func (b *Board) broadcast(event *domain.Event) {
	b.viewersMu.RLock()
	defer b.viewersMu.RUnlock()

	for viewerID, viewer := range b.viewers {
		if err := viewer.Send(event); err != nil {
			b.logger.Debug("failed to send to viewer", "viewerID", viewerID, "error", err)
		}
	}
}

func samePayload(a, b domain.BoardPayload) bool {
	if a.Configured != b.Configured {
		return false
	}
	if a.State == nil || b.State == nil {
		return a.State == b.State
	}
	return *a.State == *b.State
}
