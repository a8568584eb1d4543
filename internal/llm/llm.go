// Package llm talks to the text-generation backends the game can be played
// against.
package llm

import "context"

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is one role-tagged entry of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator sends a system instruction plus transcript to a model and
// returns its single text completion.
type Generator interface {
	Generate(ctx context.Context, system string, msgs []Message) (string, error)
}
