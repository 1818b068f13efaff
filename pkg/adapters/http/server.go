package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/dto"
	"github.com/aretw0/dialcode/internal/logging"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes a dialog engine to USSD gateways.
type Server struct {
	Engine  ports.DialogEngine
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams shares a StreamManager whose hooks are registered on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
// It fails if the embedded OpenAPI document does not validate.
func NewHandler(engine ports.DialogEngine, opts ...Option) (http.Handler, error) {
	if _, err := GetSpec(); err != nil {
		return nil, err
	}

	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "Method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	})

	r.Post("/ussd", s.HandleUSSD)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r, nil
}

// HandleUSSD handles the POST /ussd request.
func (s *Server) HandleUSSD(w http.ResponseWriter, r *http.Request) {
	var body dto.GatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid JSON"})
		s.logger.Warn("USSD: Invalid request body", "err", err)
		return
	}

	clean, err := dial.SanitizeInput(body.UserData)
	if err != nil {
		s.writeError(w, r, body.SessionID, err)
		return
	}
	body.UserData = clean

	resp, err := s.Engine.Handle(r.Context(), body.ToDomain())
	if err != nil {
		s.writeError(w, r, body.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewGatewayResponse(resp))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSpec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "dialcode-http",
		"version":     strings.TrimSpace(dialcode.Version),
		"api_version": apiVersion,
	})
}

// StatusFor maps an engine error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidChoice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMissingSessionID),
		errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrInputRejected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("USSD: Request failed",
			"session_id", sessionID,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	} else {
		s.logger.Debug("USSD: Request rejected", "session_id", sessionID, "code", domain.Code(err), "err", err)
	}
	writeJSON(w, status, dto.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
