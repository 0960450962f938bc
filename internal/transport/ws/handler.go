package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/GCLCMentor/CherryCourtTimer/internal/app"
)

// Handler handles WebSocket connections for one role
type Handler struct {
	hub      *app.Hub
	role     Role
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.Hub, role Role, logger *slog.Logger) *Handler {
	return &Handler{
		hub:  hub,
		role: role,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Screens are served from other hosts on the venue network
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(conn, h.hub, h.role, clientID, h.logger)
	client.sendConnected()

	switch h.role {
	case RoleOperator:
		h.hub.Console().RegisterClient(clientID, client)
		h.sendInitialState(r)
	case RoleBoard:
		// Registration sends the board's last read
		h.hub.Board().RegisterViewer(clientID, client)
	}

	h.logger.Info("websocket connected",
		"clientID", clientID,
		"role", h.role,
	)

	client.Run()
}

// sendInitialState refreshes operators once the newcomer is registered.
// Without a configured game the console raises CONFIG_MISSING instead.
func (h *Handler) sendInitialState(r *http.Request) {
	if _, err := h.hub.Session(r.Context()); err != nil {
		h.logger.Debug("operator connected without a game", "error", err)
		return
	}
	h.hub.Console().Refresh()
}
