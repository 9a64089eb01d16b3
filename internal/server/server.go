// Package server exposes one chat session over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/chat"
	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// maxBodyBytes bounds the size of a submitted task
const maxBodyBytes = 64 << 10

type Server struct {
	controller *chat.Controller
	model      string
	logger     *zap.Logger
}

func NewServer(controller *chat.Controller, model string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		controller: controller,
		model:      model,
		logger:     logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/messages", s.listMessages)
		r.Post("/messages", s.postMessage)
		r.Post("/reset", s.reset)
	})

	return r
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	s.logger.Info("listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

type sessionResponse struct {
	Model    string               `json:"model,omitempty"`
	Messages []models.ChatMessage `json:"messages"`
	Loading  bool                 `json:"loading"`
	Error    *string              `json:"error"`
}

type submitRequest struct {
	Task string `json:"task"`
	URL  string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) session(state chat.State) sessionResponse {
	resp := sessionResponse{
		Model:    s.model,
		Messages: state.Messages,
		Loading:  state.Loading,
	}
	if state.HasError() {
		msg := state.LastError
		resp.Error = &msg
	}
	return resp
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session(s.controller.State()))
}

// postMessage runs one submission to completion. Adapter failures are part
// of the returned session, not an HTTP error.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSONStatus(w, errorResponse{Error: "invalid request body"}, http.StatusBadRequest)
		return
	}

	// The upstream call is not aborted when the client goes away.
	ctx := context.WithoutCancel(r.Context())
	state, err := s.controller.Submit(ctx, req.Task, req.URL)
	switch {
	case errors.Is(err, chat.ErrBusy):
		writeJSONStatus(w, errorResponse{Error: err.Error()}, http.StatusConflict)
		return
	case apierrors.IsValidationError(err):
		writeJSONStatus(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	case err != nil:
		s.logger.Error("submit failed", zap.Error(err))
		writeJSONStatus(w, errorResponse{Error: apierrors.UserMessage(err)}, http.StatusInternalServerError)
		return
	}

	writeJSON(w, s.session(state))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session(s.controller.Reset()))
}

func writeJSON(w http.ResponseWriter, value any) {
	writeJSONStatus(w, value, http.StatusOK)
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}
