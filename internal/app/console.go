package app

import (
	"log/slog"
	"sync"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// ClientConnection represents a connected screen
type ClientConnection interface {
	Send(message interface{}) error
	GetClientID() string
	Close() error
}

// Console fans session updates out to operator connections. It is installed
// as both the display notifier and the alerter of the session.
type Console struct {
	clients   map[string]ClientConnection
	clientsMu sync.RWMutex
	logger    *slog.Logger

	session   *Session
	sessionMu sync.RWMutex

	events chan *domain.Event
	done   chan struct{}
	once   sync.Once
}

// NewConsole creates a console and starts its event loop
func NewConsole(logger *slog.Logger) *Console {
	c := &Console{
		clients: make(map[string]ClientConnection),
		logger:  logger,
		events:  make(chan *domain.Event, 100),
		done:    make(chan struct{}),
	}

	go c.eventLoop()

	return c
}

// Attach sets the session whose state is pushed on refresh
func (c *Console) Attach(s *Session) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session = s
}

// Detach forgets the current session
func (c *Console) Detach() {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session = nil
}

// Refresh implements Notifier. The snapshot is taken when the event is sent,
// so a burst of refreshes always ends on the latest state.
func (c *Console) Refresh() {
	c.queueEvent(domain.NewEvent(domain.EventState, nil))
}

// Alert implements Alerter
func (c *Console) Alert(notice domain.Notice) {
	c.queueEvent(domain.NewEvent(domain.EventNotice, notice))
}

// RegisterClient registers an operator connection
func (c *Console) RegisterClient(clientID string, client ClientConnection) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	c.clients[clientID] = client
}

// UnregisterClient removes an operator connection
func (c *Console) UnregisterClient(clientID string) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	delete(c.clients, clientID)
}

// ClientCount returns the number of operator connections
func (c *Console) ClientCount() int {
	c.clientsMu.RLock()
	defer c.clientsMu.RUnlock()
	return len(c.clients)
}

// StateEvent builds a state event for the attached session
func (c *Console) StateEvent() (*domain.Event, bool) {
	c.sessionMu.RLock()
	s := c.session
	c.sessionMu.RUnlock()

	if s == nil {
		return nil, false
	}

	state := s.Snapshot()
	return domain.NewEvent(domain.EventState, &domain.StatePayload{
		State:  state,
		Status: state.Status(),
	}), true
}

// queueEvent adds an event to the broadcast queue
func (c *Console) queueEvent(event *domain.Event) {
	select {
	case c.events <- event:
	default:
		c.logger.Warn("console queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to operators
func (c *Console) eventLoop() {
	for {
		select {
		case <-c.done:
			return
		case event := <-c.events:
			if event.Type == domain.EventState && event.Payload == nil {
				var ok bool
				if event, ok = c.StateEvent(); !ok {
					continue
				}
			}
			c.broadcast(event)
		}
	}
}

// broadcast sends an event to every operator connection
func (c *Console) broadcast(event *domain.Event) {
	c.clientsMu.RLock()
	defer c.clientsMu.RUnlock()

	for clientID, client := range c.clients {
		if err := client.Send(event); err != nil {
			c.logger.Debug("failed to send to operator", "clientID", clientID, "error", err)
		}
	}
}

// Close stops the event loop and closes all operator connections
func (c *Console) Close() {
	c.once.Do(func() {
		close(c.done)
	})

	c.clientsMu.Lock()
	for _, client := range c.clients {
		client.Close()
	}
	c.clients = make(map[string]ClientConnection)
	c.clientsMu.Unlock()
}
