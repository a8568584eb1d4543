package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"GO-icg/internal/game"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is waiting for the model")
)

type entry struct {
	session  game.Session
	busy     bool
	lastSeen time.Time
}

// Store holds one isolated game session per player.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
	newID    func() string
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*entry),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Store) Create() (string, game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	sess := game.NewSession()
	s.sessions[id] = &entry{session: sess, lastSeen: s.now()}
	return id, sess
}

func (s *Store) Get(id string) (game.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return game.Session{}, false, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.session, e.busy, nil
}

// Acquire marks the session busy and hands out its current value. Only one
// transition may hold a session at a time.
func (s *Store) Acquire(id string) (game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return game.Session{}, ErrSessionNotFound
	}
	if e.busy {
		return game.Session{}, ErrSessionBusy
	}
	e.busy = true
	e.lastSeen = s.now()
	return e.session, nil
}

// Release stores the outcome of a transition and frees the session.
func (s *Store) Release(id string, sess game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.session = sess
		e.busy = false
		e.lastSeen = s.now()
	}
}

// Evict drops idle sessions not touched within ttl and returns how many
// were removed. Busy sessions are kept.
func (s *Store) Evict(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for id, e := range s.sessions {
		if !e.busy && e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
