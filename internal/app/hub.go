package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
)

// Hub owns the process-wide game: at most one session writing the store,
// the operator console and the public board reader.
type Hub struct {
	store   store.Store
	clock   clockwork.Clock
	logger  *slog.Logger
	console *Console
	board   *Board

	session *Session
	mu      sync.Mutex
}

// NewHub creates a hub over the store
func NewHub(st store.Store, clock clockwork.Clock, pollInterval time.Duration, logger *slog.Logger) *Hub {
	return &Hub{
		store:   st,
		clock:   clock,
		logger:  logger,
		console: NewConsole(logger.With("component", "console")),
		board:   NewBoard(st, clock, pollInterval, logger.With("component", "board")),
	}
}

// Console returns the operator console
func (h *Hub) Console() *Console {
	return h.console
}

// Board returns the public board reader
func (h *Hub) Board() *Board {
	return h.board
}

// Session returns the open session, opening it from the store on first use.
// It returns an error matching domain.ErrConfigMissing while no game is configured.
func (h *Hub) Session(ctx context.Context) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		return h.session, nil
	}
	return h.openLocked(ctx)
}

// Current returns the open session without trying to open one
func (h *Hub) Current() (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session, h.session != nil
}

// Configure writes a fresh game for the setup and reopens the session on it.
// Any running countdown of the previous game is stopped.
func (h *Hub) Configure(ctx context.Context, setup domain.Setup) (*Session, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeSessionLocked()

	state := domain.NewGameState(setup)
	if err := h.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save initial game state: %w", err)
	}

	h.logger.Info("game configured",
		"periodDuration", setup.PeriodDuration,
		"totalPeriods", setup.TotalPeriods,
	)

	return h.openLocked(ctx)
}

// Close stops the session and disconnects every screen
func (h *Hub) Close() {
	h.mu.Lock()
	h.closeSessionLocked()
	h.mu.Unlock()

	h.console.Close()
	h.board.Close()
}

func (h *Hub) openLocked(ctx context.Context) (*Session, error) {
	s, err := Open(ctx, h.store, h.logger,
		WithClock(h.clock),
		WithNotifier(h.console.Refresh),
		WithAlerter(h.console),
	)
	if err != nil {
		return nil, err
	}

	h.session = s
	h.console.Attach(s)
	h.console.Refresh()
	return s, nil
}

func (h *Hub) closeSessionLocked() {
	if h.session == nil {
		return
	}
	h.session.Close()
	h.console.Detach()
	h.session = nil
}
