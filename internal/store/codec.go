package store

import (
	"encoding/json"
	"fmt"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// Encode serializes the record in its persisted JSON shape
func Encode(state domain.GameState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return data, nil
}

// Decode parses and validates a persisted record
func Decode(data []byte) (domain.GameState, error) {
	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.GameState{}, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}
	if err := state.Validate(); err != nil {
		return domain.GameState{}, err
	}
	return state, nil
}
