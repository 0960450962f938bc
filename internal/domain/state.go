package domain

import "fmt"

// Setup holds the parameters fixed at configuration time
type Setup struct {
	PeriodDuration int `json:"periodDuration" yaml:"period_duration"` // minutes
	TotalPeriods   int `json:"totalPeriods" yaml:"total_periods"`
}

// Validate checks that the setup can produce a playable game
func (s Setup) Validate() error {
	if s.PeriodDuration < 1 {
		return fmt.Errorf("%w: period duration must be at least 1 minute", ErrInvalidSetup)
	}
	if s.TotalPeriods < 1 {
		return fmt.Errorf("%w: total periods must be at least 1", ErrInvalidSetup)
	}
	return nil
}

// GameState is the single persisted record shared by the operator and the board
type GameState struct {
	TimeRemaining  int  `json:"timeRemaining"`  // seconds
	PeriodDuration int  `json:"periodDuration"` // minutes
	CurrentPeriod  int  `json:"currentPeriod"`
	TotalPeriods   int  `json:"totalPeriods"`
	IsRunning      bool `json:"isRunning"`
	ScoreLocal     int  `json:"scoreLocal"`
	ScoreGuest     int  `json:"scoreGuest"`
}

// NewGameState creates the initial record for a freshly configured game
func NewGameState(setup Setup) GameState {
	return GameState{
		TimeRemaining:  setup.PeriodDuration * 60,
		PeriodDuration: setup.PeriodDuration,
		CurrentPeriod:  1,
		TotalPeriods:   setup.TotalPeriods,
		IsRunning:      false,
		ScoreLocal:     0,
		ScoreGuest:     0,
	}
}

// Validate checks the record invariants. A record that fails validation is
// treated as unreadable by the stores.
func (g GameState) Validate() error {
	switch {
	case g.PeriodDuration < 1:
		return fmt.Errorf("%w: periodDuration %d", ErrUnreadable, g.PeriodDuration)
	case g.TotalPeriods < 1:
		return fmt.Errorf("%w: totalPeriods %d", ErrUnreadable, g.TotalPeriods)
	case g.CurrentPeriod < 1 || g.CurrentPeriod > g.TotalPeriods:
		return fmt.Errorf("%w: currentPeriod %d of %d", ErrUnreadable, g.CurrentPeriod, g.TotalPeriods)
	case g.TimeRemaining < 0:
		return fmt.Errorf("%w: timeRemaining %d", ErrUnreadable, g.TimeRemaining)
	case g.ScoreLocal < 0 || g.ScoreGuest < 0:
		return fmt.Errorf("%w: negative score", ErrUnreadable)
	}
	return nil
}

// Status returns the derived clock status
func (g *GameState) Status() ClockStatus {
	if g.IsRunning {
		return ClockRunning
	}
	return ClockIdle
}

// PeriodSeconds returns the full length of a period in seconds
func (g *GameState) PeriodSeconds() int {
	return g.PeriodDuration * 60
}

// IsLastPeriod reports whether no further period can be started
func (g *GameState) IsLastPeriod() bool {
	return g.CurrentPeriod >= g.TotalPeriods
}

// Start moves the clock to Running
func (g *GameState) Start() error {
	if !g.Status().CanTransitionTo(ClockRunning) {
		return ErrAlreadyRunning
	}
	if g.TimeRemaining <= 0 {
		return ErrTimeExpired
	}
	g.IsRunning = true
	return nil
}

// Pause moves the clock to Idle without touching the remaining time
func (g *GameState) Pause() error {
	if !g.Status().CanTransitionTo(ClockIdle) {
		return ErrAlreadyIdle
	}
	g.IsRunning = false
	return nil
}

// ResetPeriodTimer restores the full period time. The caller is responsible
// for pausing first.
func (g *GameState) ResetPeriodTimer() {
	g.TimeRemaining = g.PeriodSeconds()
}

// AdvancePeriod stops the clock, moves to the next period and resets the time
func (g *GameState) AdvancePeriod() error {
	if g.IsLastPeriod() {
		return ErrMaxPeriods
	}
	g.IsRunning = false
	g.CurrentPeriod++
	g.ResetPeriodTimer()
	return nil
}

// TickResult describes what a single countdown tick did
type TickResult struct {
	Stopped        bool // The countdown must stop after this tick
	PeriodEnded    bool
	FinishedPeriod int
	GameOver       bool
}

// Tick advances the countdown by one second. When the remaining time reaches
// zero the clock stops within the same tick and either rolls over to the next
// period or ends the game.
func (g *GameState) Tick() TickResult {
	if g.TimeRemaining > 0 {
		g.TimeRemaining--
	}
	if g.TimeRemaining > 0 {
		return TickResult{}
	}

	g.IsRunning = false
	finished := g.CurrentPeriod
	if g.AdvancePeriod() == nil {
		return TickResult{Stopped: true, PeriodEnded: true, FinishedPeriod: finished}
	}

	g.TimeRemaining = 0
	return TickResult{Stopped: true, GameOver: true, FinishedPeriod: finished}
}
