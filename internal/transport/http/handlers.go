package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/GCLCMentor/CherryCourtTimer/internal/app"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeConfigMissing  = "CONFIG_MISSING"
	ErrCodeInvalidSetup   = "INVALID_SETUP"
	ErrCodeInvalidTeam    = "INVALID_TEAM"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// HealthResponse is the response for health check
type HealthResponse struct {
	Status       string `json:"status"`
	Backend      string `json:"backend"`
	Configured   bool   `json:"configured"`
	Operators    int    `json:"operators"`
	Viewers      int    `json:"viewers"`
	PersistError string `json:"persistError,omitempty"`
}

// ClockResponse carries the state after a command and any notice it raised
type ClockResponse struct {
	State  domain.GameState   `json:"state"`
	Status domain.ClockStatus `json:"status"`
	Notice *domain.Notice     `json:"notice,omitempty"`
}

// ScoreRequest is the body of POST /api/score
type ScoreRequest struct {
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := &HealthResponse{
		Status:    "ok",
		Backend:   s.config.Store.Backend,
		Operators: s.hub.Console().ClientCount(),
		Viewers:   s.hub.Board().ViewerCount(),
	}

	if session, ok := s.hub.Current(); ok {
		resp.Configured = true
		if err := session.LastPersistError(); err != nil {
			resp.Status = "degraded"
			resp.PersistError = err.Error()
		}
	}

	s.sendSuccess(w, resp)
}

// handleGetState handles GET /api/state
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendSuccess(w, clockResponse(session, nil))
}

// handleSetup handles POST /api/setup
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var setup domain.Setup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	session, err := s.hub.Configure(r.Context(), setup)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSetup) {
			s.sendError(w, http.StatusBadRequest, ErrCodeInvalidSetup, err.Error())
		} else {
			s.logger.Error("failed to configure game", "error", err)
			s.sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to configure game")
		}
		return
	}

	s.sendSuccess(w, clockResponse(session, nil))
}

// handleStart handles POST /api/clock/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.clockCommand(w, r, (*app.Session).Start)
}

// handlePause handles POST /api/clock/pause
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.clockCommand(w, r, (*app.Session).Pause)
}

// handleReset handles POST /api/clock/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.clockCommand(w, r, (*app.Session).ResetPeriodTimer)
}

// handleNextPeriod handles POST /api/clock/next-period
func (s *Server) handleNextPeriod(w http.ResponseWriter, r *http.Request) {
	s.clockCommand(w, r, (*app.Session).NextPeriod)
}

// handleScore handles POST /api/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	team, err := domain.ParseTeam(req.Team)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidTeam, "Team must be local or guest")
		return
	}

	session, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := session.UpdateScore(team, req.Points); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidTeam, err.Error())
		return
	}

	s.sendSuccess(w, clockResponse(session, nil))
}

// clockCommand runs a clock command on the session and reports the result
func (s *Server) clockCommand(w http.ResponseWriter, r *http.Request, cmd func(*app.Session) *domain.Notice) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	notice := cmd(session)
	s.sendSuccess(w, clockResponse(session, notice))
}

// session resolves the open session, writing the error response if there is none
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	session, err := s.hub.Session(r.Context())
	if err == nil {
		return session, true
	}

	if errors.Is(err, domain.ErrConfigMissing) {
		s.sendError(w, http.StatusNotFound, ErrCodeConfigMissing, domain.ConfigMissingNotice().Message)
	} else {
		s.logger.Error("failed to open session", "error", err)
		s.sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
	}
	return nil, false
}

func clockResponse(session *app.Session, notice *domain.Notice) *ClockResponse {
	state := session.Snapshot()
	return &ClockResponse{
		State:  state,
		Status: state.Status(),
		Notice: notice,
	}
}

// handleStatic serves static files
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")

	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	rs, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), rs)
}

// handlePage serves one of the embedded HTML pages
func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := s.webFS.Open(name)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeContent(w, r, name, stat.ModTime(), file.(io.ReadSeeker))
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
