package app

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// tickInterval is the countdown resolution
const tickInterval = time.Second

// tickHandle is the single active countdown source of a session
type tickHandle struct {
	ticker clockwork.Ticker
	done   chan struct{}
}

// startTickLocked creates the tick source unless one is already active.
// Caller must hold mu.
func (s *Session) startTickLocked() {
	if s.tick != nil {
		return
	}

	h := &tickHandle{
		ticker: s.clock.NewTicker(tickInterval),
		done:   make(chan struct{}),
	}
	s.tick = h

	go s.runTicks(h)
}

// stopTickLocked stops and drops the tick source. Caller must hold mu.
func (s *Session) stopTickLocked() {
	if s.tick == nil {
		return
	}

	s.tick.ticker.Stop()
	close(s.tick.done)
	s.tick = nil
}

// runTicks delivers ticks from h until it is stopped
func (s *Session) runTicks(h *tickHandle) {
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.Chan():
			s.emit(s.handleTick(h))
		}
	}
}

// handleTick applies one countdown step. Ticks from a handle that has since
// been stopped or replaced are dropped.
func (s *Session) handleTick(h *tickHandle) effects {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tick != h {
		return effects{}
	}

	res := s.state.Tick()
	fx := effects{notify: true}

	if res.Stopped {
		s.stopTickLocked()
	}

	switch {
	case res.PeriodEnded:
		s.logger.Info("period ended", "period", res.FinishedPeriod, "next", s.state.CurrentPeriod)
		fx.notices = append(fx.notices, domain.PeriodEndedNotice(res.FinishedPeriod))
	case res.GameOver:
		s.logger.Info("game over", "scoreLocal", s.state.ScoreLocal, "scoreGuest", s.state.ScoreGuest)
		fx.notices = append(fx.notices, domain.GameOverNotice(s.state.ScoreLocal, s.state.ScoreGuest))
	}

	s.persistLocked()
	return fx
}
