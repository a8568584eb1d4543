package game

import "strings"

const (
	guessPrefix    = "GUESS:"
	questionPrefix = "QUESTION:"
)

// ReplyKind tags what the model answered with.
type ReplyKind int

const (
	ReplyUnparseable ReplyKind = iota
	ReplyQuestion
	ReplyGuess
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyQuestion:
		return "question"
	case ReplyGuess:
		return "guess"
	default:
		return "unparseable"
	}
}

// Reply is a parsed model response. Text holds the question or the guessed
// region and is empty for unparseable replies.
type Reply struct {
	Kind ReplyKind
	Text string
}

// ParseReply classifies a raw completion. GUESS: wins over QUESTION:, the
// match is case sensitive and a tag with nothing after it is unparseable.
func ParseReply(raw string) Reply {
	content := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(content, guessPrefix):
		if region := strings.TrimSpace(strings.TrimPrefix(content, guessPrefix)); region != "" {
			return Reply{Kind: ReplyGuess, Text: region}
		}
	case strings.HasPrefix(content, questionPrefix):
		if question := strings.TrimSpace(strings.TrimPrefix(content, questionPrefix)); question != "" {
			return Reply{Kind: ReplyQuestion, Text: question}
		}
	}
	return Reply{Kind: ReplyUnparseable}
}
