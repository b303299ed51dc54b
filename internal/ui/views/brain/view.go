package brain

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	braindto "mindshelf/internal/modules/brain/dto"
	"mindshelf/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Show(ctx context.Context) (braindto.BrainOutput, error)
	Merge(ctx context.Context, itemID string) (braindto.MergeOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Brain braindto.BrainOutput
	Err   error
}

type MergedMsg struct {
	Result braindto.MergeOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	brain    braindto.BrainOutput
	status   string
	merging  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, viewport: viewport.New(0, 0), spinner: sp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.Show(context.Background())
		return LoadedMsg{Brain: out, Err: err}
	}
}

// Merge folds a passed item into the knowledge base.
func (m *Model) Merge(itemID string) tea.Cmd {
	m.merging = true
	m.status = ""
	port := m.port
	merge := func() tea.Msg {
		out, err := port.Merge(context.Background(), itemID)
		return MergedMsg{Result: out, Err: err}
	}
	return tea.Batch(merge, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.viewport.SetContent(m.render())

	case LoadedMsg:
		if msg.Err != nil {
			m.status = theme.Bad.Render("Error: " + msg.Err.Error())
			return m, nil
		}
		m.brain = msg.Brain
		m.viewport.SetContent(m.render())

	case MergedMsg:
		m.merging = false
		if msg.Err != nil {
			m.status = theme.Bad.Render("Merge failed: " + msg.Err.Error())
			return m, nil
		}
		m.brain = msg.Result.Brain
		m.status = theme.Good.Render("Merged " + msg.Result.ItemID + " (item mastered)")
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.merging {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := theme.Title.Render("Brain") +
		theme.Muted.Render(fmt.Sprintf("  revision %d", m.brain.Revision))
	switch {
	case m.merging:
		header += "  " + m.spinner.View() + " merging…"
	case m.status != "":
		header += "  " + m.status
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.viewport.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) render() string {
	if m.brain.Content == "" {
		return theme.Muted.Render("Your brain is empty. Pass a quiz, then merge the item from the Library tab (m).")
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		return m.brain.Content
	}
	out, err := r.Render(m.brain.Content)
	if err != nil {
		return m.brain.Content
	}
	return out
}
