package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GCLCMentor/CherryCourtTimer/internal/app"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256

	// Time allowed to open the session for an operator command
	commandTimeout = 5 * time.Second
)

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	hub      *app.Hub
	role     Role
	clientID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.Hub, role Role, clientID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		role:     role,
		clientID: clientID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetClientID implements app.ClientConnection interface
func (c *Client) GetClientID() string {
	return c.clientID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "clientID", c.clientID)
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		switch c.role {
		case RoleOperator:
			c.hub.Console().UnregisterClient(c.clientID)
		case RoleBoard:
			c.hub.Board().UnregisterViewer(c.clientID)
		}
		c.Close()
		c.logger.Info("websocket disconnected", "clientID", c.clientID, "role", c.role)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	if msg.Type == MsgPing {
		c.sendPong()
		return
	}

	if c.role != RoleOperator {
		c.sendError(ErrCodeReadOnly, "The board cannot send commands")
		return
	}

	switch msg.Type {
	case MsgStart:
		c.withSession(func(s *app.Session) { s.Start() })
	case MsgPause:
		c.withSession(func(s *app.Session) { s.Pause() })
	case MsgResetTimer:
		c.withSession(func(s *app.Session) { s.ResetPeriodTimer() })
	case MsgNextPeriod:
		c.withSession(func(s *app.Session) { s.NextPeriod() })
	case MsgUpdateScore:
		c.handleUpdateScore(msg.Payload)
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// withSession runs fn on the open session. Notices raised by the command
// reach every operator through the console.
func (c *Client) withSession(fn func(s *app.Session)) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	session, err := c.hub.Session(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConfigMissing) {
			c.sendError(ErrCodeConfigMissing, "No game configured")
		} else {
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	fn(session)
}

// handleUpdateScore handles an update_score message
func (c *Client) handleUpdateScore(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	teamName, _ := payloadMap["team"].(string)
	team, err := domain.ParseTeam(teamName)
	if err != nil {
		c.sendError(ErrCodeInvalidTeam, "Team must be local or guest")
		return
	}

	points, ok := payloadMap["points"].(float64)
	if !ok || points != float64(int(points)) {
		c.sendError(ErrCodeInvalidMessage, "Points must be a whole number")
		return
	}

	c.withSession(func(s *app.Session) {
		if err := s.UpdateScore(team, int(points)); err != nil {
			c.sendError(ErrCodeInvalidTeam, err.Error())
		}
	})
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	c.Send(NewServerMessage(MsgConnected, &ConnectedPayload{
		ClientID: c.clientID,
		Role:     c.role,
	}))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	msg := NewServerMessage(MsgError, payload)
	c.Send(msg)
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}
