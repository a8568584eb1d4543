package game

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"GO-icg/internal/llm"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// Querier turns a conversation history into the model's next move.
type Querier interface {
	Query(ctx context.Context, history []Turn) (Reply, error)
}

// Adapter builds the prompt for a history, makes one model call and parses
// the reply.
type Adapter struct {
	gen     llm.Generator
	system  string
	timeout time.Duration
	retries int
	log     logr.Logger
}

type AdapterOption func(*Adapter)

// WithTimeout sets the per-call deadline. Zero disables it.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.timeout = d }
}

// WithRetries allows up to n extra calls when the model replies in neither
// tagged format. Unreachable-model errors are never retried.
func WithRetries(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.retries = n
		}
	}
}

func WithLogger(l logr.Logger) AdapterOption {
	return func(a *Adapter) { a.log = l }
}

func NewAdapter(gen llm.Generator, region string, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		gen:     gen,
		system:  SystemPrompt(region),
		timeout: DefaultTimeout,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildTranscript lays out the history as assistant questions and user
// answers and closes with the next-step request.
func BuildTranscript(history []Turn) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(history)+1)
	for _, t := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleAssistant, Content: t.Question},
			llm.Message{Role: llm.RoleUser, Content: string(t.Answer)},
		)
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: nextStepPrompt})
}

// Query asks the model for its next move given history. A failed call
// returns an error wrapping ErrModelUnreachable; a reply in neither format
// returns ReplyUnparseable with an *UnparseableError.
func (a *Adapter) Query(ctx context.Context, history []Turn) (Reply, error) {
	msgs := BuildTranscript(history)

	var raw string
	for attempt := 0; attempt <= a.retries; attempt++ {
		var err error
		raw, err = a.call(ctx, msgs)
		if err != nil {
			a.log.Error(err, "model call failed", "turns", len(history), "attempt", attempt+1)
			return Reply{}, fmt.Errorf("%w: %w", ErrModelUnreachable, err)
		}

		reply := ParseReply(raw)
		if reply.Kind != ReplyUnparseable {
			a.log.V(1).Info("model replied", "kind", reply.Kind.String(), "turns", len(history))
			return reply, nil
		}
		a.log.Info("model reply matched neither format", "raw", raw, "turns", len(history), "attempt", attempt+1)
	}
	return Reply{Kind: ReplyUnparseable}, &UnparseableError{Raw: raw}
}

func (a *Adapter) call(ctx context.Context, msgs []llm.Message) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.gen.Generate(ctx, a.system, msgs)
}
