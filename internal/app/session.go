package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
)

// saveTimeout bounds a single store write
const saveTimeout = 5 * time.Second

// Notifier refreshes a view after every state mutation
type Notifier func()

// Alerter surfaces notices to the operator
type Alerter interface {
	Alert(notice domain.Notice)
}

// Option configures a Session
type Option func(*Session)

// WithClock sets the clock driving the countdown
func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithNotifier installs the display notifier
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notify = n
		}
	}
}

// WithAlerter installs the operator alerter
func WithAlerter(a Alerter) Option {
	return func(s *Session) {
		if a != nil {
			s.alerter = a
		}
	}
}

// Session is the controller for one game. It owns the in-memory state, which
// stays authoritative for the lifetime of the session even when the store
// rejects a write. Every mutation runs under mu and is followed by a save.
type Session struct {
	id     string
	state  domain.GameState
	store  store.Store
	clock  clockwork.Clock
	mu     sync.Mutex
	logger *slog.Logger

	notify  Notifier
	alerter Alerter

	// At most one tick source; replaced only under mu
	tick *tickHandle

	persistErr error

	ctx    context.Context
	cancel context.CancelFunc
}

// effects are collected under mu and delivered after it is released, so
// notifiers may read the session.
type effects struct {
	notify  bool
	notices []domain.Notice
}

// Open loads the stored game and returns a session for it. When nothing
// usable is stored it raises a CONFIG_MISSING notice and returns an error
// matching domain.ErrConfigMissing.
func Open(ctx context.Context, st store.Store, logger *slog.Logger, opts ...Option) (*Session, error) {
	sessionCtx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	s := &Session{
		id:     id,
		store:  st,
		clock:  clockwork.NewRealClock(),
		logger: logger.With("session", id),
		notify: func() {},
		ctx:    sessionCtx,
		cancel: cancel,
	}
	s.alerter = &logAlerter{logger: s.logger}

	for _, opt := range opts {
		opt(s)
	}

	state, err := st.Load(ctx)
	if err != nil {
		cancel()
		s.logger.Warn("no usable game state", "error", err)
		s.alerter.Alert(domain.ConfigMissingNotice())
		if errors.Is(err, domain.ErrConfigMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigMissing, err)
	}

	s.state = state

	// No tick survives a restart, so a record saved mid-countdown resumes idle
	if s.state.IsRunning {
		s.logger.Info("stored clock was running, resuming idle", "timeRemaining", s.state.TimeRemaining)
		s.state.IsRunning = false
		s.persistLocked()
	}

	s.logger.Info("session opened",
		"period", s.state.CurrentPeriod,
		"totalPeriods", s.state.TotalPeriods,
		"timeRemaining", s.state.TimeRemaining,
	)

	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastPersistError returns the most recent save failure, or nil if the last
// save succeeded
func (s *Session) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Start begins the countdown. Starting a running clock, or one with no time
// left, is a no-op reported as a notice.
func (s *Session) Start() *domain.Notice {
	s.mu.Lock()
	fx := s.startLocked()
	s.mu.Unlock()
	return s.emit(fx)
}

func (s *Session) startLocked() effects {
	if err := s.state.Start(); err != nil {
		return s.boundary(err)
	}

	s.startTickLocked()
	s.persistLocked()
	s.logger.Debug("clock started", "timeRemaining", s.state.TimeRemaining)
	return effects{notify: true}
}

// Pause stops the countdown, keeping the remaining time
func (s *Session) Pause() *domain.Notice {
	s.mu.Lock()
	fx := s.pauseLocked()
	s.mu.Unlock()
	return s.emit(fx)
}

func (s *Session) pauseLocked() effects {
	if err := s.state.Pause(); err != nil {
		return s.boundary(err)
	}

	s.stopTickLocked()
	s.persistLocked()
	s.logger.Debug("clock paused", "timeRemaining", s.state.TimeRemaining)
	return effects{notify: true}
}

// ResetPeriodTimer stops the clock if needed and restores the full period time
func (s *Session) ResetPeriodTimer() *domain.Notice {
	s.mu.Lock()
	fx := s.resetLocked()
	s.mu.Unlock()
	return s.emit(fx)
}

func (s *Session) resetLocked() effects {
	if s.state.IsRunning {
		s.state.Pause()
		s.stopTickLocked()
	}

	s.state.ResetPeriodTimer()
	s.persistLocked()
	s.logger.Debug("period timer reset", "period", s.state.CurrentPeriod)
	return effects{notify: true}
}

// NextPeriod moves to the next period by hand. At the last period it is a
// no-op reported with a MAX_PERIODS_REACHED notice.
func (s *Session) NextPeriod() *domain.Notice {
	s.mu.Lock()
	fx := s.nextPeriodLocked()
	s.mu.Unlock()
	return s.emit(fx)
}

func (s *Session) nextPeriodLocked() effects {
	if err := s.state.AdvancePeriod(); err != nil {
		return s.boundary(err)
	}

	s.stopTickLocked()
	s.persistLocked()
	s.logger.Info("advanced to next period", "period", s.state.CurrentPeriod)
	return effects{notify: true}
}

// UpdateScore adds points to a team, clamped at zero. The state is saved and
// the view refreshed even when the clamp absorbs the whole change. An unknown
// team leaves everything untouched and returns domain.ErrInvalidTeam.
func (s *Session) UpdateScore(team domain.Team, points int) error {
	s.mu.Lock()
	score, err := s.state.UpdateScore(team, points)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("score update rejected", "team", team, "points", points, "error", err)
		return err
	}
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("score updated", "team", team, "points", points, "score", score)
	s.emit(effects{notify: true})
	return nil
}

// Close stops the countdown. The state is left as last saved.
func (s *Session) Close() {
	s.mu.Lock()
	s.stopTickLocked()
	s.mu.Unlock()
	s.cancel()
}

// persistLocked writes the state. Failures are logged and remembered; the
// next mutation's save is the retry.
func (s *Session) persistLocked() {
	ctx, cancel := context.WithTimeout(s.ctx, saveTimeout)
	defer cancel()

	if err := s.store.Save(ctx, s.state); err != nil {
		s.logger.Error("failed to persist game state", "error", err)
		s.persistErr = err
		return
	}
	s.persistErr = nil
}

// boundary turns a boundary error from the clock engine into a notice
func (s *Session) boundary(err error) effects {
	notice, ok := domain.BoundaryNotice(err, s.state.CurrentPeriod)
	if !ok {
		s.logger.Error("unexpected clock error", "error", err)
		return effects{}
	}
	s.logger.Debug("clock command ignored", "reason", notice.Kind)
	return effects{notices: []domain.Notice{notice}}
}

// emit delivers collected effects and returns the last notice raised, if any
func (s *Session) emit(fx effects) *domain.Notice {
	if fx.notify {
		s.notify()
	}

	var last *domain.Notice
	for i := range fx.notices {
		s.alerter.Alert(fx.notices[i])
		last = &fx.notices[i]
	}
	return last
}

// logAlerter is used when no alerter is installed
type logAlerter struct {
	logger *slog.Logger
}

func (a *logAlerter) Alert(notice domain.Notice) {
	a.logger.Info("notice", "kind", notice.Kind, "message", notice.Message)
}
