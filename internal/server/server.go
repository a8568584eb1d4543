// Package server exposes the game over a small JSON API, one isolated
// session per player.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"GO-icg/internal/game"
)

// View is what a client needs to render the current screen.
type View struct {
	ID       string        `json:"id"`
	Page     game.Page     `json:"page"`
	Question string        `json:"question,omitempty"`
	Answers  []game.Answer `json:"answers,omitempty"`
	Guess    string        `json:"guess,omitempty"`
	History  []game.Turn   `json:"history"`
	Busy     bool          `json:"busy,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func newView(id string, s game.Session) View {
	v := View{ID: id, Page: s.Page, History: s.History, Guess: s.Guess}
	if v.History == nil {
		v.History = []game.Turn{}
	}
	if s.Page == game.PageQuestion {
		v.Question = s.CurrentQuestion
		v.Answers = game.Answers()
	}
	return v
}

type Server struct {
	machine *game.Machine
	store   *Store
	ttl     time.Duration
	log     logr.Logger
}

func New(m *game.Machine, store *Store, ttl time.Duration, log logr.Logger) *Server {
	return &Server{machine: m, store: store, ttl: ttl, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGet)
	mux.HandleFunc("POST /api/sessions/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/sessions/{id}/answer", s.handleAnswer)
	mux.HandleFunc("POST /api/sessions/{id}/restart", s.handleRestart)
	return mux
}

// Janitor evicts idle sessions until ctx is done.
func (s *Server) Janitor(ctx context.Context) error {
	if s.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.store.Evict(s.ttl); n > 0 {
				s.log.V(1).Info("evicted idle sessions", "count", n, "remaining", s.store.Len())
			}
		}
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, _ *http.Request) {
	id, sess := s.store.Create()
	s.log.V(1).Info("session created", "session", id)
	writeJSON(w, http.StatusCreated, newView(id, sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, busy, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, id, game.Session{}, err)
		return
	}
	v := newView(id, sess)
	v.Busy = busy
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(ctx context.Context, sess game.Session) (game.Session, error) {
		next, err := s.machine.Start(ctx, sess)
		if err != nil {
			return next, &failure{page: game.PageStart, err: err}
		}
		return next, nil
	})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, View{ID: r.PathValue("id"), Error: "malformed request body"})
		return
	}
	answer, err := game.ParseAnswer(req.Answer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, View{ID: r.PathValue("id"), Error: err.Error()})
		return
	}
	s.transition(w, r, func(ctx context.Context, sess game.Session) (game.Session, error) {
		next, err := s.machine.Answer(ctx, sess, answer)
		if err != nil {
			return next, &failure{page: sess.Page, err: err}
		}
		return next, nil
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(_ context.Context, sess game.Session) (game.Session, error) {
		return s.machine.Restart(sess), nil
	})
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, game.Session) (game.Session, error)) {
	id := r.PathValue("id")
	sess, err := s.store.Acquire(id)
	if err != nil {
		s.writeError(w, id, game.Session{}, err)
		return
	}

	next, err := fn(r.Context(), sess)
	s.store.Release(id, next)
	if err != nil {
		s.writeError(w, id, next, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, next))
}

// failure remembers which page a failed transition started from so the
// player sees the matching message.
type failure struct {
	page game.Page
	err  error
}

func (f *failure) Error() string { return f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func (s *Server) writeError(w http.ResponseWriter, id string, sess game.Session, err error) {
	status := http.StatusInternalServerError
	v := View{ID: id, History: []game.Turn{}, Error: err.Error()}

	var f *failure
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrSessionBusy), errors.Is(err, game.ErrNotAsking):
		status = http.StatusConflict
		if sess.Page != "" {
			v = newView(id, sess)
			v.Error = err.Error()
		}
	case errors.Is(err, game.ErrInvalidAnswer):
		status = http.StatusBadRequest
	case errors.As(err, &f):
		status = http.StatusBadGateway
		v = newView(id, sess)
		v.Error = game.FailureMessage(f.page, f.err)
		s.log.Info("transition failed", "session", id, "page", string(f.page),
			"unreachable", errors.Is(err, game.ErrModelUnreachable),
			"unparseable", errors.Is(err, game.ErrUnparseableReply),
			"error", err.Error())
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
