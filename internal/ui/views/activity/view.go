package activity

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "mindshelf/internal/modules/activity/dto"
	"mindshelf/internal/ui/theme"
)

const journalLimit = 20

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Summary(ctx context.Context) (activitydto.SummaryOutput, error)
	ListEntries(ctx context.Context, limit int) ([]activitydto.JournalEntryOutput, error)
	PostEntry(ctx context.Context, body string) (activitydto.JournalEntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Summary activitydto.SummaryOutput
	Entries []activitydto.JournalEntryOutput
	Err     error
}

type PostedMsg struct {
	Entry activitydto.JournalEntryOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	summary activitydto.SummaryOutput
	entries []activitydto.JournalEntryOutput
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		ctx := context.Background()
		summary, err := port.Summary(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		entries, err := port.ListEntries(ctx, journalLimit)
		return LoadedMsg{Summary: summary, Entries: entries, Err: err}
	}
}

// Post adds a journal entry; posting also counts as activity for today.
func (m Model) Post(body string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		entry, err := port.PostEntry(context.Background(), body)
		return PostedMsg{Entry: entry, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.summary = msg.Summary
			m.entries = msg.Entries
		}
	case PostedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			return m, m.Reload()
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := m.summary
	stats := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Activity"),
		"",
		fmt.Sprintf("%s %d", theme.Muted.Render("level: "), s.Level),
		fmt.Sprintf("%s %d", theme.Muted.Render("total: "), s.Total),
		fmt.Sprintf("%s %d day(s)", theme.Muted.Render("streak:"), s.Streak),
	)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(m.renderHeatmap()),
		stats,
	)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Journal") + "\n")
	if len(m.entries) == 0 {
		sb.WriteString(theme.Muted.Render("No entries yet. Use :journal <text> to post one."))
	}
	for _, e := range m.entries {
		sb.WriteString(theme.Muted.Render(e.PostedAt.Local().Format("2006-01-02 15:04")) + "  " + e.Body + "\n")
	}
	out := lipgloss.JoinVertical(lipgloss.Left, top, "", sb.String())
	if m.err != nil {
		out += "\n" + theme.Bad.Render("Error: "+m.err.Error())
	}
	return out
}

// ─── private ─────────────────────────────────────────────────────────────────

// renderHeatmap lays the cells out as weeks, oldest at the top left.
func (m Model) renderHeatmap() string {
	cells := m.summary.Heatmap
	var rows []string
	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		var row strings.Builder
		for _, c := range cells[start:end] {
			row.WriteString(heatCell(c.Tier) + " ")
		}
		rows = append(rows, row.String())
	}
	if len(rows) == 0 {
		return theme.Muted.Render("no activity yet")
	}
	return strings.Join(rows, "\n")
}

func heatCell(tier int) string {
	if tier < 0 {
		tier = 0
	}
	if tier >= len(theme.HeatTiers) {
		tier = len(theme.HeatTiers) - 1
	}
	return lipgloss.NewStyle().Foreground(theme.HeatTiers[tier]).Render("■")
}
