package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	readerdto "mindshelf/internal/modules/reader/dto"
	"mindshelf/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the reader use-case.
type Port interface {
	Open(ctx context.Context, itemID string) (readerdto.DocumentOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg is sent when an item has been opened (or failed to open).
type OpenedMsg struct {
	Document readerdto.DocumentOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	doc      readerdto.DocumentOutput
	renderer *glamour.TermRenderer
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
	}
}

// Init is a no-op: the reader is idle until Open is called.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.doc.ItemID != "" {
			m.viewport.SetContent(m.renderContent())
		}

	case OpenedMsg:
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent(theme.Bad.Render("Error: " + msg.Err.Error()))
			return m, nil
		}
		m.doc = msg.Document
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.loading {
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
	header := m.renderHeader()
	vpHeight := m.height - lipgloss.Height(header) - 1
	if vpHeight < 1 {
		vpHeight = 1
	}

	if m.loading {
		loading := lipgloss.Place(m.width, vpHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Opening item…")
		return lipgloss.JoinVertical(lipgloss.Left, header, loading)
	}

	vp := m.viewport
	vp.Height = vpHeight
	footer := theme.Muted.Render(fmt.Sprintf("%.0f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), footer)
}

// Open marks the item as being read and loads its content. The returned Cmd
// produces an OpenedMsg.
func (m *Model) Open(itemID string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.openCmd(itemID), m.spinner.Tick)
}

// ItemID is the currently displayed item, empty before the first Open.
func (m Model) ItemID() string { return m.doc.ItemID }

// ExternalTarget is the web address of the open item, if it has one.
func (m Model) ExternalTarget() string { return m.doc.ExternalTarget }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderHeader() string {
	if m.doc.ItemID == "" {
		return theme.Title.Render("Reader") +
			theme.Muted.Render("  Open an item from the Library tab (enter)") + "\n"
	}
	parts := []string{
		theme.Title.Render(m.doc.Title),
		theme.Muted.Render(fmt.Sprintf("[%s/%s]", m.doc.SourceKind, m.doc.LifecycleStatus)),
	}
	nav := "  ↑/↓: scroll"
	if m.doc.ExternalTarget != "" {
		nav += "  :open-external"
	}
	return strings.Join(parts, "  ") + theme.Muted.Render(nav) + "\n"
}

func (m Model) renderContent() string {
	d := m.doc
	body := d.Content
	if strings.TrimSpace(body) == "" {
		body = d.Summary
	}
	if strings.TrimSpace(body) == "" {
		return theme.Muted.Render("(no content)")
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			return rendered
		}
	}
	return body
}

func (m Model) openCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.port.Open(context.Background(), itemID)
		return OpenedMsg{Document: doc, Err: err}
	}
}
