package game

import "fmt"

// Page is the screen a session is on.
type Page string

const (
	PageStart    Page = "start"
	PageQuestion Page = "question"
	PageResult   Page = "result"
)

// Answer is one of the four choices a player can give.
type Answer string

const (
	AnswerYes      Answer = "Yes"
	AnswerNo       Answer = "No"
	AnswerMaybe    Answer = "Maybe"
	AnswerDontKnow Answer = "Don't Know"
)

// Answers returns the selectable answers in display order.
func Answers() []Answer {
	return []Answer{AnswerYes, AnswerNo, AnswerMaybe, AnswerDontKnow}
}

// ParseAnswer validates a raw answer label.
func ParseAnswer(s string) (Answer, error) {
	for _, a := range Answers() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
}

// Turn is one question/answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   Answer `json:"answer"`
}

// Session is the whole state of one player's game.
type Session struct {
	Page            Page   `json:"page"`
	History         []Turn `json:"history"`
	CurrentQuestion string `json:"current_question,omitempty"`
	Guess           string `json:"guess,omitempty"`
}

// NewSession returns the empty session every game starts from.
func NewSession() Session {
	return Session{Page: PageStart, History: []Turn{}}
}

// Valid reports whether the page agrees with the question and guess fields.
func (s Session) Valid() bool {
	switch s.Page {
	case PageStart:
		return s.CurrentQuestion == "" && s.Guess == ""
	case PageQuestion:
		return s.CurrentQuestion != "" && s.Guess == ""
	case PageResult:
		return s.Guess != "" && s.CurrentQuestion == ""
	default:
		return false
	}
}

// withTurn returns a copy of the session whose history has t appended. The
// receiver's backing array is never written to.
func (s Session) withTurn(t Turn) Session {
	history := make([]Turn, len(s.History), len(s.History)+1)
	copy(history, s.History)
	s.History = append(history, t)
	return s
}
