package domain

// ClockStatus represents whether the countdown is ticking
type ClockStatus string

const (
	ClockIdle    ClockStatus = "IDLE"    // Entry state, and after pause/period end/game end
	ClockRunning ClockStatus = "RUNNING" // One active countdown
)

// String returns the string representation of the status
func (s ClockStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current status to target status is valid
func (s ClockStatus) CanTransitionTo(target ClockStatus) bool {
	validTransitions := map[ClockStatus][]ClockStatus{
		ClockIdle:    {ClockRunning},
		ClockRunning: {ClockIdle},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
