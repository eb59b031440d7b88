package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
)

// APIVersion is reported by GET /info.
const APIVersion = "1"

// Server holds the dependencies of the HTTP API.
type Server struct {
	Engine   ports.Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger

	gatherer prometheus.Gatherer
	newID    func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithIDGenerator replaces the random session ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// KeysRequest is the body of POST /sessions/{id}/keys.
type KeysRequest struct {
	Keys string `json:"keys,omitempty"`
	Key  string `json:"key,omitempty"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	A  string  `json:"a"`
	B  *string `json:"b,omitempty"`
	Op string  `json:"op,omitempty"`
}

// EvaluateResponse carries either a result or the error text.
type EvaluateResponse struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	SessionID string            `json:"session_id"`
	Display   domain.Display    `json:"display"`
	State     *domain.State     `json:"state"`
	Diff      *domain.StateDiff `json:"diff,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.Logger
	return enableCORS(s.Routes())
}

// Routes builds the chi router without middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/evaluate", s.Evaluate)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Post("/{id}/keys", s.PressKeys)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tally-http",
		"version":     strings.TrimSpace(tally.Version),
		"api_version": APIVersion,
	})
}

// Evaluate handles the stateless POST /evaluate request.
// Arithmetic failures answer 422 with "Error" as the result.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Evaluate: Invalid request body", "err", err)
		return
	}

	op, err := domain.ParseOperator(body.Op)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid operator: %v", err), http.StatusBadRequest)
		return
	}

	result, err := tally.Evaluate(body.A, body.B, op)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, EvaluateResponse{Result: domain.ErrorText, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{Result: result})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListSessions failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions with a generated session ID.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	state, err := s.Sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("CreateSession failed", "err", err)
		return
	}
	s.Logger.Info("Session created", "session_id", id)
	s.writeJSON(w, http.StatusCreated, s.response(r, state, nil))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.storeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.response(r, state, nil))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.storeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /sessions/{id}/keys. Unknown sessions are started on first use.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PressKeys: Invalid request body", "err", err)
		return
	}

	script := strings.TrimSpace(body.Keys + " " + body.Key)
	clean, err := runner.SanitizeInput(script)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("PressKeys: Input rejected", "err", err, "size", len(script))
		return
	}

	var rich *runner.RichResponse
	state, err := s.Sessions.Apply(r.Context(), id, func(current *domain.State) (*domain.State, error) {
		res, err := runner.PressAndRender(r.Context(), s.Engine, current, clean)
		if err != nil {
			return nil, err
		}
		rich = res
		return res.State, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownKey) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.storeError(w, "PressKeys", err)
		return
	}

	if rich.Diff != nil {
		rich.Diff.SessionID = id
		if payload, err := json.Marshal(rich.Diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	} else {
		s.Logger.Debug("PressKeys: No diff calculated", "session_id", id)
	}

	s.writeJSON(w, http.StatusOK, SessionResponse{
		SessionID: id,
		Display:   rich.Display,
		State:     state,
		Diff:      rich.Diff,
	})
}

func (s *Server) response(r *http.Request, state *domain.State, diff *domain.StateDiff) SessionResponse {
	return SessionResponse{
		SessionID: state.SessionID,
		Display:   s.Engine.Render(r.Context(), state),
		State:     state,
		Diff:      diff,
	}
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
	s.Logger.Error(op+" failed", "err", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
