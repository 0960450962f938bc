package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/GCLCMentor/CherryCourtTimer/internal/app"
	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	hub    *app.Hub
	config *config.Config
	logger *slog.Logger
	webFS  fs.FS
}

// NewServer creates a new HTTP server. webFS must hold the pages under web/.
func NewServer(cfg *config.Config, hub *app.Hub, logger *slog.Logger, webFS fs.FS) *Server {
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		logger.Error("failed to get web subdirectory", "error", err)
	}

	s := &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
		webFS:  webContent,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      c.Handler(s.middleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// API routes
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleGetState)
	mux.HandleFunc("POST /api/setup", s.handleSetup)
	mux.HandleFunc("POST /api/clock/start", s.handleStart)
	mux.HandleFunc("POST /api/clock/pause", s.handlePause)
	mux.HandleFunc("POST /api/clock/reset", s.handleReset)
	mux.HandleFunc("POST /api/clock/next-period", s.handleNextPeriod)
	mux.HandleFunc("POST /api/score", s.handleScore)

	// WebSocket
	mux.Handle("GET /ws/operator", ws.NewHandler(s.hub, ws.RoleOperator, s.logger))
	mux.Handle("GET /ws/board", ws.NewHandler(s.hub, ws.RoleBoard, s.logger))

	// Pages
	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("GET /board", s.handlePage("board.html"))
	mux.HandleFunc("GET /{$}", s.handlePage("index.html"))
}

// Handler returns the root handler, CORS and logging included
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// middleware wraps the handler with request logging
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Log request (skip static files in production)
		if s.config.IsDevelopment() || !isStaticRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func isStaticRequest(path string) bool {
	return strings.HasPrefix(path, "/static/")
}
