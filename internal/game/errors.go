package game

import (
	"errors"
	"fmt"
)

var (
	ErrModelUnreachable  = errors.New("model unreachable")
	ErrUnparseableReply  = errors.New("unparseable model reply")
	ErrNoOpeningQuestion = errors.New("model did not open with a question")
	ErrNotAsking         = errors.New("no question is pending")
	ErrInvalidAnswer     = errors.New("invalid answer")
)

// UnparseableError keeps the raw reply around for diagnostics.
type UnparseableError struct {
	Raw string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnparseableReply, e.Raw)
}

func (e *UnparseableError) Unwrap() error { return ErrUnparseableReply }

// Messages shown to players when a transition fails.
const (
	MsgStartFailed      = "Failed to load the first question. Please try again."
	MsgReplyUnclear     = "Couldn't understand model response. Please restart."
	MsgModelUnreachable = "Couldn't reach the model. Please try again or restart."
)

// FailureMessage picks the player-facing text for an error returned by a
// transition that was attempted from page.
func FailureMessage(page Page, err error) string {
	switch {
	case err == nil:
		return ""
	case page == PageStart:
		return MsgStartFailed
	case errors.Is(err, ErrModelUnreachable):
		return MsgModelUnreachable
	default:
		return MsgReplyUnclear
	}
}
