// Package server exposes the conversational turn handler over HTTP: one
// chat endpoint plus a health probe. Transport concerns only; every turn is
// delegated to the orchestrator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

// TurnHandler processes one conversational turn; the orchestrator
// implements it.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error)
}

type Config struct {
	Addr           string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	AllowedOrigin  string        `envconfig:"ALLOWED_ORIGIN" split_words:"true" default:"http://localhost:3000"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"60s"`
}

type Server struct {
	httpServer    *http.Server
	turns         TurnHandler
	allowedOrigin string
	timeout       time.Duration
}

func New(cfg Config, turns TurnHandler) (*Server, error) {
	if turns == nil {
		return nil, errors.New("turn handler is required")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	s := &Server{
		turns:         turns,
		allowedOrigin: strings.TrimSpace(cfg.AllowedOrigin),
		timeout:       timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.cors(s.logRequests(mux)),
	}
	return s, nil
}

func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string            `json:"response"`
	SessionID string            `json:"session_id"`
	FormData  map[string]string `json:"form_data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.turns.HandleTurn(ctx, sessionID, req.Message)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		status := http.StatusInternalServerError
		if errors.Is(err, contractx.ErrResolver) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: "failed to process message"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  result.Response,
		SessionID: sessionID,
		FormData:  result.FormData,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}
