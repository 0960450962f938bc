package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Operator → Server message types
const (
	MsgStart       MessageType = "start"
	MsgPause       MessageType = "pause"
	MsgResetTimer  MessageType = "reset_timer"
	MsgNextPeriod  MessageType = "next_period"
	MsgUpdateScore MessageType = "update_score"
	MsgPing        MessageType = "ping"
)

// Server → Client message types. State, notice and board refreshes are sent
// as domain events.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// Role is what a connection is allowed to do
type Role string

const (
	RoleOperator Role = "operator" // drives the clock and the score
	RoleBoard    Role = "board"    // read-only public display
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// UpdateScorePayload is the payload for update_score message
type UpdateScorePayload struct {
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ClientID string `json:"clientId"`
	Role     Role   `json:"role"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeConfigMissing  = "CONFIG_MISSING"
	ErrCodeInvalidTeam    = "INVALID_TEAM"
	ErrCodeReadOnly       = "READ_ONLY"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
