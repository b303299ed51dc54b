package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	quizdto "mindshelf/internal/modules/quiz/dto"
	"mindshelf/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Start(ctx context.Context, itemID string) (quizdto.SessionOutput, error)
	Answer(ctx context.Context, sessionID string, option int) (quizdto.SessionOutput, error)
	Advance(ctx context.Context, sessionID string) (quizdto.SessionOutput, error)
	Retry(ctx context.Context, sessionID string) (quizdto.SessionOutput, error)
	Discard(ctx context.Context, sessionID string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// SessionMsg carries the session after any quiz operation.
type SessionMsg struct {
	Session quizdto.SessionOutput
	Err     error
}

// DiscardedMsg is sent once a session has been thrown away.
type DiscardedMsg struct {
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	spinner spinner.Model
	session quizdto.SessionOutput
	err     error
	busy    bool
	width   int
	height  int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp}
}

func (m Model) Init() tea.Cmd { return nil }

// Start discards any running session and generates questions for itemID.
func (m *Model) Start(itemID string) tea.Cmd {
	m.busy = true
	m.err = nil
	previous := m.session.ID
	m.session = quizdto.SessionOutput{ItemID: itemID, State: "generating"}
	port := m.port
	start := func() tea.Msg {
		ctx := context.Background()
		if previous != "" {
			_ = port.Discard(ctx, previous)
		}
		out, err := port.Start(ctx, itemID)
		return SessionMsg{Session: out, Err: err}
	}
	return tea.Batch(start, m.spinner.Tick)
}

// Active reports whether a session is running and keys should go to the quiz.
func (m Model) Active() bool {
	return m.session.ID != "" && m.session.State != "passed"
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SessionMsg:
		m.busy = false
		m.err = msg.Err
		if msg.Err == nil {
			m.session = msg.Session
		} else if m.session.ID == "" {
			m.session = quizdto.SessionOutput{}
		}

	case DiscardedMsg:
		m.busy = false
		m.err = msg.Err
		if msg.Err == nil {
			m.session = quizdto.SessionOutput{}
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.busy || m.session.ID == "" {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	s := m.session
	switch {
	case m.busy && s.ID == "":
		sb.WriteString(m.spinner.View() + " Generating questions…\n")
	case s.ID == "":
		sb.WriteString(theme.Title.Render("Quiz") + "\n\n")
		sb.WriteString(theme.Muted.Render("Select an item in the Library tab and press t to start a quiz."))
	case s.State == "review":
		sb.WriteString(m.renderHeader())
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("Round %d finished: %d missed", s.Round, len(s.Missed))) + "\n\n")
		sb.WriteString(theme.Muted.Render("r: retry missed questions  x: discard"))
	case s.State == "passed":
		sb.WriteString(m.renderHeader())
		sb.WriteString(theme.Good.Render("All questions answered correctly. Test passed!") + "\n\n")
		sb.WriteString(theme.Muted.Render("Press m in the Library tab to merge this item into your brain."))
	default:
		sb.WriteString(m.renderHeader())
		sb.WriteString(m.renderQuestion())
	}
	if m.err != nil {
		sb.WriteString("\n\n" + theme.Bad.Render("Error: "+m.err.Error()))
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.session
	id := s.ID
	switch key := msg.String(); key {
	case "1", "2", "3", "4":
		if s.State != "active" || s.Feedback != nil {
			return m, nil
		}
		option := int(key[0] - '1')
		m.busy = true
		return m, m.sessionCmd(func(ctx context.Context) (quizdto.SessionOutput, error) {
			return m.port.Answer(ctx, id, option)
		})
	case "enter", "n":
		if s.State != "active" || s.Feedback == nil {
			return m, nil
		}
		m.busy = true
		return m, m.sessionCmd(func(ctx context.Context) (quizdto.SessionOutput, error) {
			return m.port.Advance(ctx, id)
		})
	case "r":
		if s.State != "review" {
			return m, nil
		}
		m.busy = true
		return m, m.sessionCmd(func(ctx context.Context) (quizdto.SessionOutput, error) {
			return m.port.Retry(ctx, id)
		})
	case "x":
		m.busy = true
		port := m.port
		return m, func() tea.Msg {
			return DiscardedMsg{Err: port.Discard(context.Background(), id)}
		}
	}
	return m, nil
}

func (m Model) sessionCmd(fn func(ctx context.Context) (quizdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return SessionMsg{Session: out, Err: err}
	}
}

func (m Model) renderHeader() string {
	s := m.session
	title := s.ItemTitle
	if title == "" {
		title = s.ItemID
	}
	progress := fmt.Sprintf("round %d  question %d/%d", s.Round, s.Position+1, s.Total)
	if s.State != "active" {
		progress = fmt.Sprintf("round %d", s.Round)
	}
	return theme.Title.Render("Quiz: "+title) + "  " + theme.Muted.Render(progress) + "\n\n"
}

func (m Model) renderQuestion() string {
	s := m.session
	if s.Question == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(s.Question.Prompt + "\n\n")
	for i, opt := range s.Question.Options {
		line := fmt.Sprintf("  %d. %s", i+1, opt)
		if fb := s.Feedback; fb != nil {
			switch {
			case i == fb.CorrectIndex:
				line = theme.Good.Render(line)
			case i == fb.Selected:
				line = theme.Bad.Render(line)
			default:
				line = theme.Muted.Render(line)
			}
		}
		sb.WriteString(line + "\n")
	}
	if fb := s.Feedback; fb != nil {
		sb.WriteString("\n")
		if fb.Correct {
			sb.WriteString(theme.Good.Render("Correct") + "\n")
		} else {
			sb.WriteString(theme.Bad.Render("Incorrect") + "\n")
		}
		if fb.Explanation != "" {
			sb.WriteString(fb.Explanation + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("enter: next question  x: discard"))
	} else {
		sb.WriteString("\n" + theme.Muted.Render("1-4: answer  x: discard"))
	}
	return sb.String()
}
