// Package devserver is a local stand-in for the form collection endpoint.
// It accepts the same wire contract, keeps submissions in memory and answers
// failures with {"message": ...} bodies.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"github.com/idilsaglam/pineforms/internal/model"
)

const (
	DefaultAddr = "localhost:8080"
	SubmitPath  = "/api/forms/submit"
)

// Submission is one accepted form post.
type Submission struct {
	ID         string         `json:"id"`
	FormID     string         `json:"form_id"`
	Data       map[string]any `json:"data"`
	ReceivedAt time.Time      `json:"received_at"`
}

type Server struct {
	log *zap.Logger

	mu    deadlock.Mutex
	inbox []Submission
}

func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log}
}

// Submissions returns a copy of the inbox in arrival order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.inbox))
	copy(out, s.inbox)
	return out
}

func (s *Server) Routes() http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Recoverer, s.requestLogger)

	root.Route("/api/forms", func(r chi.Router) {
		r.Post("/submit", s.submit)
		r.Get("/submissions", s.list)
	})
	return root
}

type submitBody struct {
	FormID string         `json:"form_id"`
	Data   map[string]any `json:"data"`
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var body submitBody
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		s.fail(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	def, ok := model.Lookup(body.FormID)
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Sprintf("Unknown form %q.", body.FormID))
		return
	}
	for _, f := range def.Required() {
		if blank(body.Data[f.Name]) {
			s.fail(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("Missing required field: %s.", f.Label))
			return
		}
	}

	sub := Submission{
		ID:         uuid.NewString(),
		FormID:     def.ID,
		Data:       body.Data,
		ReceivedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.inbox = append(s.inbox, sub)
	s.mu.Unlock()

	s.log.Info("submission accepted", zap.String("form_id", sub.FormID), zap.String("id", sub.ID))
	render.JSON(w, r, map[string]any{
		"message": "ok",
		"id":      sub.ID,
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Submissions())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.log.Debug("submission rejected", zap.Int("status", status), zap.String("message", msg))
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"message": msg})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case []any:
		return len(x) == 0
	}
	return false
}

// ListenAndServe serves the collector on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("collector listening", zap.String("addr", "http://"+addr+SubmitPath))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
