package domain

import "errors"

// Domain errors
var (
	ErrConfigMissing = errors.New("game configuration missing")
	ErrUnreadable    = errors.New("game state unreadable")
	ErrInvalidSetup  = errors.New("invalid game setup")
	ErrInvalidTeam   = errors.New("invalid team")
)

// Boundary conditions. These are expected steady-state outcomes of clock
// commands; the session reports them as notices rather than failures.
var (
	ErrAlreadyRunning = errors.New("clock already running")
	ErrTimeExpired    = errors.New("no time remaining in period")
	ErrAlreadyIdle    = errors.New("clock already stopped")
	ErrMaxPeriods     = errors.New("max periods reached")
)
