package domain

import (
	"fmt"
	"time"
)

// EventType represents the type of event pushed to connected screens
type EventType string

const (
	EventState  EventType = "STATE"  // Operator view refresh
	EventNotice EventType = "NOTICE" // Operator acknowledgement or boundary report
	EventBoard  EventType = "BOARD"  // Public board refresh
)

// Event is pushed to operator and board connections
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NoticeKind identifies a user-facing condition
type NoticeKind string

const (
	NoticePeriodEnded    NoticeKind = "PERIOD_ENDED"
	NoticeGameOver       NoticeKind = "GAME_OVER"
	NoticeConfigMissing  NoticeKind = "CONFIG_MISSING"
	NoticeMaxPeriods     NoticeKind = "MAX_PERIODS_REACHED"
	NoticeAlreadyRunning NoticeKind = "ALREADY_RUNNING"
	NoticeTimeExpired    NoticeKind = "TIME_EXPIRED"
	NoticeAlreadyIdle    NoticeKind = "ALREADY_IDLE"
)

// Notice is a condition surfaced to the operator. Blocking notices expect an
// explicit acknowledgement before the operator carries on.
type Notice struct {
	Kind       NoticeKind `json:"kind"`
	Blocking   bool       `json:"blocking"`
	Message    string     `json:"message"`
	Period     int        `json:"period,omitempty"`
	ScoreLocal int        `json:"scoreLocal,omitempty"`
	ScoreGuest int        `json:"scoreGuest,omitempty"`
}

// PeriodEndedNotice is raised when the countdown finishes a period that is not the last
func PeriodEndedNotice(period int) Notice {
	return Notice{
		Kind:     NoticePeriodEnded,
		Blocking: true,
		Message:  fmt.Sprintf("End of period %d.", period),
		Period:   period,
	}
}

// GameOverNotice is raised when the countdown finishes the last period
func GameOverNotice(local, guest int) Notice {
	return Notice{
		Kind:       NoticeGameOver,
		Blocking:   true,
		Message:    fmt.Sprintf("Game over! Final score: Local %d - Guest %d", local, guest),
		ScoreLocal: local,
		ScoreGuest: guest,
	}
}

// ConfigMissingNotice is raised when there is no usable stored game
func ConfigMissingNotice() Notice {
	return Notice{
		Kind:     NoticeConfigMissing,
		Blocking: true,
		Message:  "No game configured. Set up the game first.",
	}
}

// BoundaryNotice maps a boundary error from the clock engine to its notice.
// It returns false for errors that are not boundary conditions.
func BoundaryNotice(err error, period int) (Notice, bool) {
	switch err {
	case ErrMaxPeriods:
		return Notice{
			Kind:     NoticeMaxPeriods,
			Blocking: true,
			Message:  "Maximum number of periods reached.",
			Period:   period,
		}, true
	case ErrAlreadyRunning:
		return Notice{Kind: NoticeAlreadyRunning, Message: "Clock is already running."}, true
	case ErrTimeExpired:
		return Notice{Kind: NoticeTimeExpired, Message: "No time left in this period."}, true
	case ErrAlreadyIdle:
		return Notice{Kind: NoticeAlreadyIdle, Message: "Clock is already stopped."}, true
	}
	return Notice{}, false
}

// StatePayload is the snapshot pushed to the operator view
type StatePayload struct {
	State  GameState   `json:"state"`
	Status ClockStatus `json:"status"`
}

// BoardPayload is what the public board read from the store
type BoardPayload struct {
	State      *GameState `json:"state,omitempty"`
	Configured bool       `json:"configured"`
}
