package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/engine"
)

const maxEventBody = 1 << 20 // 1 MiB

// Server exposes the engine over HTTP.
type Server struct {
	engine *engine.Engine
	codec  *clientstate.Codec
	logger *slog.Logger
	debug  bool
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithDebug enables handler-failure detail in responses. Never on in
// production.
func WithDebug(debug bool) ServerOption {
	return func(s *Server) { s.debug = debug }
}

// NewServer wires the engine and the client-state codec into a server.
func NewServer(eng *engine.Engine, codec *clientstate.Codec, opts ...ServerOption) *Server {
	s := &Server{
		engine: eng,
		codec:  codec,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the route mux. Middleware (rate limiting, session cookie,
// client-state decryption) wraps this at the caller.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ui-event", s.HandleEvent)
	mux.HandleFunc("GET /api/screens/{screen}", s.HandleScreen)
	mux.HandleFunc("GET /healthz", s.HandleHealthz)
	return mux
}

// HandleEvent dispatches one UI event and responds with the node diff, side
// effects and the re-encrypted client state.
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		WriteBadRequest(w, "request body unreadable or too large")
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		WriteBadRequest(w, "request body is not valid JSON")
		return
	}
	if fields := validateEvent(raw); fields != nil {
		WriteValidation(w, fields)
		return
	}

	var req EventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteBadRequest(w, "request body is not a valid event")
		return
	}

	result, err := s.engine.Dispatch(r.Context(), SessionFrom(r.Context()), engine.Event{
		ComponentID: req.ComponentID,
		Trigger:     req.Event,
		Action:      req.Action,
		Params:      req.Parameters,
	}, BagFrom(r.Context()))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeResult(w, result)
}

// HandleScreen serves the initial paint for a screen: the complete tree as a
// diff against empty. The reset query flag discards any cached snapshot
// first.
func (s *Server) HandleScreen(w http.ResponseWriter, r *http.Request) {
	screen := r.PathValue("screen")
	reset := r.URL.Query().Get("reset") == "1" || r.URL.Query().Get("reset") == "true"

	result, err := s.engine.LoadScreen(r.Context(), SessionFrom(r.Context()), screen, reset, BagFrom(r.Context()))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeResult(w, result)
}

// HandleHealthz is the liveness probe.
func (s *Server) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeResult merges the encrypted state bag into the payload and sends it.
func (s *Server) writeResult(w http.ResponseWriter, result *engine.Result) {
	payload := result.Payload
	if len(result.State) > 0 {
		blob, err := s.codec.Encode(result.State)
		if err != nil {
			WriteInternal(w, err)
			return
		}
		payload["storage"] = map[string]any{"usim": blob}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// writeEngineError maps the engine's error taxonomy onto HTTP. Not-found
// messages are safe to show raw; contract violations and handler failures
// stay generic, with handler detail gated behind debug mode.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var ee *engine.Error
	if !errors.As(err, &ee) {
		WriteInternal(w, err)
		return
	}

	switch ee.Kind {
	case engine.KindNotFound:
		WriteNotFound(w, ee.Message)
	case engine.KindValidationFailure:
		WriteValidation(w, ee.Fields)
	case engine.KindContractViolation:
		s.logger.Error("ui contract violation", "error", ee)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error",
			"UI state is inconsistent. Reload the screen.")
	default:
		s.logger.Error("handler failure", "error", ee)
		detail := "An unexpected error occurred. Please try again later."
		if s.debug {
			detail = ee.Error()
		}
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", detail)
	}
}
