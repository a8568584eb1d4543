package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// Recorder keeps finished games. Recording is best effort.
type Recorder interface {
	RecordGuess(ctx context.Context, s Session) error
}

// Machine drives a Session from page to page. It holds no session state of
// its own so one Machine can serve any number of players.
type Machine struct {
	q   Querier
	rec Recorder
	log logr.Logger
}

type MachineOption func(*Machine)

func WithRecorder(r Recorder) MachineOption {
	return func(m *Machine) { m.rec = r }
}

func WithMachineLogger(l logr.Logger) MachineOption {
	return func(m *Machine) { m.log = l }
}

func NewMachine(q Querier, opts ...MachineOption) *Machine {
	m := &Machine{q: q, log: logr.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a fresh game and fetches the opening question. Whatever
// page s was on, a failure leaves the player on a clean start page.
func (m *Machine) Start(ctx context.Context, _ Session) (Session, error) {
	reply, err := m.q.Query(ctx, nil)
	if err != nil {
		m.log.Info("could not load the first question", "error", err.Error())
		return NewSession(), err
	}
	if reply.Kind != ReplyQuestion {
		m.log.Info("model skipped the opening question", "kind", reply.Kind.String())
		return NewSession(), ErrNoOpeningQuestion
	}

	s := NewSession()
	s.Page = PageQuestion
	s.CurrentQuestion = reply.Text
	return s, nil
}

// Answer records the player's answer to the pending question and asks the
// model what to do next. The turn is kept even when the model call fails,
// in which case the session stays on the same question.
func (m *Machine) Answer(ctx context.Context, s Session, a Answer) (Session, error) {
	if s.Page != PageQuestion || s.CurrentQuestion == "" {
		return s, ErrNotAsking
	}
	if _, err := ParseAnswer(string(a)); err != nil {
		return s, err
	}

	s = s.withTurn(Turn{Question: s.CurrentQuestion, Answer: a})

	reply, err := m.q.Query(ctx, s.History)
	if err != nil {
		m.log.Info("no usable model output", "turns", len(s.History), "unreachable", errors.Is(err, ErrModelUnreachable))
		return s, err
	}

	switch reply.Kind {
	case ReplyGuess:
		s.Page = PageResult
		s.Guess = reply.Text
		s.CurrentQuestion = ""
		m.record(ctx, s)
	case ReplyQuestion:
		s.CurrentQuestion = reply.Text
	default:
		return s, fmt.Errorf("%w: empty reply", ErrUnparseableReply)
	}
	return s, nil
}

// Restart throws the game away, whatever page it was on.
func (m *Machine) Restart(_ Session) Session {
	return NewSession()
}

func (m *Machine) record(ctx context.Context, s Session) {
	if m.rec == nil {
		return
	}
	if err := m.rec.RecordGuess(ctx, s); err != nil {
		m.log.Error(err, "failed to record guess", "guess", s.Guess)
	}
}
