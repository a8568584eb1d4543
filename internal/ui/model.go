// Package ui is the terminal front end: a start screen, a question screen
// with the four answer buttons and a result screen.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"GO-icg/internal/game"
)

// Game is the part of the state machine the UI drives.
type Game interface {
	Start(ctx context.Context, s game.Session) (game.Session, error)
	Answer(ctx context.Context, s game.Session, a game.Answer) (game.Session, error)
	Restart(s game.Session) game.Session
}

type transitionMsg struct {
	from    game.Page
	session game.Session
	err     error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	game    Game
	region  string
	session game.Session

	cursor  int
	busy    bool
	status  string
	errText string

	spinner spinner.Model
	keys    keyMap
	help    help.Model
}

func NewModel(ctx context.Context, g Game, region string) Model {
	if region == "" {
		region = game.DefaultRegion
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorMauve)
	return Model{
		ctx:     ctx,
		game:    g,
		region:  region,
		session: game.NewSession(),
		spinner: sp,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

// Session returns the session currently on screen.
func (m Model) Session() game.Session { return m.session }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case transitionMsg:
		m.busy = false
		m.session = msg.session
		m.errText = game.FailureMessage(msg.from, msg.err)
		if msg.err == nil {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch m.session.Page {
	case game.PageStart:
		if key.Matches(msg, m.keys.Choose) {
			return m.begin("Starting...", game.PageStart, func(ctx context.Context) (game.Session, error) {
				return m.game.Start(ctx, m.session)
			})
		}

	case game.PageQuestion:
		switch {
		case key.Matches(msg, m.keys.Restart):
			return m.restart(), nil
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 2) % 4
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
			m.cursor ^= 1
		case key.Matches(msg, m.keys.Pick):
			m.cursor = int(msg.Runes[0] - '1')
			return m.answer()
		case key.Matches(msg, m.keys.Choose):
			return m.answer()
		}

	case game.PageResult:
		if key.Matches(msg, m.keys.Choose) || key.Matches(msg, m.keys.Restart) {
			return m.restart(), nil
		}
	}
	return m, nil
}

func (m Model) answer() (tea.Model, tea.Cmd) {
	choice := game.Answers()[m.cursor]
	current := m.session
	return m.begin("Thinking...", game.PageQuestion, func(ctx context.Context) (game.Session, error) {
		return m.game.Answer(ctx, current, choice)
	})
}

func (m Model) restart() Model {
	m.session = m.game.Restart(m.session)
	m.cursor = 0
	m.errText = ""
	return m
}

// begin runs one model-backed transition in the background and keeps the
// screen busy until it reports back.
func (m Model) begin(status string, from game.Page, fn func(context.Context) (game.Session, error)) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = status
	m.errText = ""
	ctx := m.ctx
	run := func() tea.Msg {
		s, err := fn(ctx)
		return transitionMsg{from: from, session: s, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) View() string {
	var b strings.Builder

	switch m.session.Page {
	case game.PageQuestion:
		m.viewQuestion(&b)
	case game.PageResult:
		m.viewResult(&b)
	default:
		m.viewStart(&b)
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " " + m.status + "\n")
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Render("❌ "+m.errText) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func (m Model) viewStart(b *strings.Builder) {
	b.WriteString(titleStyle.Render("🌍 ICG - Guess Your "+titleCase(m.region)+"!") + "\n\n")
	fmt.Fprintf(b, "We'll try to guess which %s you're from based on your answers.\n\n", lipgloss.NewStyle().Bold(true).Render(m.region))
	b.WriteString(mutedStyle.Render("Ready to play?") + "\n")
	b.WriteString(buttonActiveStyle.Render("Start the Game") + "\n")
}

func (m Model) viewQuestion(b *strings.Builder) {
	b.WriteString(questionStyle.Render("🤔 "+m.session.CurrentQuestion) + "\n")
	b.WriteString(mutedStyle.Render("Choose your answer:") + "\n")

	var buttons []string
	for i, a := range game.Answers() {
		label := fmt.Sprintf("%d  %s", i+1, a)
		if i == m.cursor {
			buttons = append(buttons, buttonActiveStyle.Render(label))
		} else {
			buttons = append(buttons, buttonStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], buttons[1]) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons[2], buttons[3]) + "\n")
	b.WriteString(restartStyle.Render("r  Restart") + "\n")
}

func (m Model) viewResult(b *strings.Builder) {
	b.WriteString(titleStyle.Render("🎉 Our guess is...") + "\n\n")
	b.WriteString(successStyle.Render("🏁 YOU ARE FROM "+strings.ToUpper(m.session.Guess)+"!") + "\n\n")
	fmt.Fprintf(b, "%s\n", mutedStyle.Render(fmt.Sprintf("Guessed after %d questions. Thanks for playing this fun game with us! 💫", len(m.session.History))))
	b.WriteString(restartStyle.Render("Play Again") + "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Run shows the UI until the player quits.
func Run(ctx context.Context, g Game, region string) error {
	_, err := tea.NewProgram(NewModel(ctx, g, region), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
