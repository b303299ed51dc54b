package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "mindshelf/internal/modules/library/dto"
	"mindshelf/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type LibraryPort interface {
	ListItems(ctx context.Context) ([]libdto.ItemOutput, error)
	GetItem(ctx context.Context, id string) (libdto.ItemDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ItemsLoadedMsg struct {
	Items []libdto.ItemOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail libdto.ItemDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type itemRow struct {
	item libdto.ItemOutput
}

func (i itemRow) Title() string { return i.item.Title }

func (i itemRow) Description() string {
	desc := fmt.Sprintf("%s  %s", i.item.SourceKind, i.item.LifecycleStatus)
	if i.item.AnalysisStatus != "completed" {
		desc += "  …" + i.item.AnalysisStatus
	}
	if i.item.IsTestPassed {
		desc += "  ✓ quiz"
	}
	return desc
}

func (i itemRow) FilterValue() string {
	return i.item.Title + " " + strings.Join(i.item.Tags, " ")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    LibraryPort
	list    list.Model
	detail  libdto.ItemDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port LibraryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Library"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the item list again, keeping the current selection.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.ListItems(context.Background())
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ItemsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Library: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Library"
		selected, _ := m.SelectedItemID()
		rows := make([]list.Item, len(msg.Items))
		keep := 0
		for i, it := range msg.Items {
			rows[i] = itemRow{item: it}
			if it.ID == selected {
				keep = i
			}
		}
		cmds = append(cmds, m.list.SetItems(rows))
		m.list.Select(keep)
		if len(msg.Items) > 0 {
			if selected == "" {
				selected = msg.Items[0].ID
			}
			cmds = append(cmds, m.loadDetailCmd(selected))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if row, ok := m.list.SelectedItem().(itemRow); ok {
				cmds = append(cmds, m.loadDetailCmd(row.item.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedItemID returns the current selection's item ID, if any.
func (m Model) SelectedItemID() (string, bool) {
	if row, ok := m.list.SelectedItem().(itemRow); ok {
		return row.item.ID, true
	}
	return "", false
}

func (m Model) SelectedItemTitle() string {
	if row, ok := m.list.SelectedItem().(itemRow); ok {
		return row.item.Title
	}
	return ""
}

func (m Model) SelectedItemStatus() string {
	if row, ok := m.list.SelectedItem().(itemRow); ok {
		return row.item.LifecycleStatus
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select an item to see its analysis")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("source:   ") + d.SourceRef + "\n")
	sb.WriteString(theme.Muted.Render("status:   ") + d.LifecycleStatus + "\n")
	sb.WriteString(theme.Muted.Render("analysis: ") + d.AnalysisStatus + "\n")
	if len(d.Tags) > 0 {
		sb.WriteString(theme.Muted.Render("tags:     ") + strings.Join(d.Tags, ", ") + "\n")
	}
	if d.IsTestPassed {
		sb.WriteString(theme.Good.Render("quiz passed") + "\n")
	}
	if d.Summary != "" {
		sb.WriteString("\n" + d.Summary + "\n")
	}
	if len(d.Keywords) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Keywords") + "\n")
		for _, k := range d.Keywords {
			sb.WriteString(fmt.Sprintf("%s (%d)  %s\n", theme.Hot.Render(k.Word), k.Count, k.Definition))
		}
	}
	if len(d.Patterns) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Improvement patterns") + "\n")
		for _, p := range d.Patterns {
			sb.WriteString(fmt.Sprintf("%s %s: %s\n", p.Icon, p.Title, p.Summary))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: read  t: quiz  m: merge into brain  :: commands"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetItem(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
