package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "mindshelf/internal/modules/activity/dto"
	braindto "mindshelf/internal/modules/brain/dto"
	librarydto "mindshelf/internal/modules/library/dto"
	quizdto "mindshelf/internal/modules/quiz/dto"
	readerdto "mindshelf/internal/modules/reader/dto"
	"mindshelf/internal/ui/components"
	"mindshelf/internal/ui/theme"
	activityview "mindshelf/internal/ui/views/activity"
	brainview "mindshelf/internal/ui/views/brain"
	libraryview "mindshelf/internal/ui/views/library"
	quizview "mindshelf/internal/ui/views/quiz"
	readerview "mindshelf/internal/ui/views/reader"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type LibraryPort interface {
	ListItems(ctx context.Context) ([]librarydto.ItemOutput, error)
	GetItem(ctx context.Context, id string) (librarydto.ItemDetailOutput, error)
	IngestURL(ctx context.Context, url string, wait bool) (librarydto.ItemDetailOutput, error)
	IngestDocument(ctx context.Context, path string, wait bool) (librarydto.ItemDetailOutput, error)
	UpdateStatus(ctx context.Context, id, status string, force bool) (librarydto.ItemDetailOutput, error)
	Reanalyze(ctx context.Context, id string) (librarydto.ItemDetailOutput, error)
	Delete(ctx context.Context, id string) error
}

type ReaderPort interface {
	Open(ctx context.Context, itemID string) (readerdto.DocumentOutput, error)
	Highlight(ctx context.Context, itemID, passage string) (readerdto.DocumentOutput, error)
}

// ExternalPort opens an item's web address in the system browser.
type ExternalPort interface {
	Open(ctx context.Context, itemID string, launchExternal bool) (readerdto.DocumentOutput, error)
}

type QuizPort interface {
	Start(ctx context.Context, itemID string) (quizdto.SessionOutput, error)
	Answer(ctx context.Context, sessionID string, option int) (quizdto.SessionOutput, error)
	Advance(ctx context.Context, sessionID string) (quizdto.SessionOutput, error)
	Retry(ctx context.Context, sessionID string) (quizdto.SessionOutput, error)
	Discard(ctx context.Context, sessionID string) error
}

type BrainPort interface {
	Show(ctx context.Context) (braindto.BrainOutput, error)
	Merge(ctx context.Context, itemID string) (braindto.MergeOutput, error)
}

type ActivityPort interface {
	Summary(ctx context.Context) (activitydto.SummaryOutput, error)
	ListEntries(ctx context.Context, limit int) ([]activitydto.JournalEntryOutput, error)
	PostEntry(ctx context.Context, body string) (activitydto.JournalEntryOutput, error)
}

type Ports struct {
	Library  LibraryPort
	Reader   ReaderPort
	External ExternalPort
	Quiz     QuizPort
	Brain    BrainPort
	Activity ActivityPort
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLibrary tabID = iota
	tabReader
	tabQuiz
	tabBrain
	tabActivity
	tabCount
)

var tabLabels = [tabCount]string{
	"Library", "Reader", "Quiz", "Brain", "Activity",
}

// ─── messages ────────────────────────────────────────────────────────────────

// ChangedMsg is delivered from the event bus whenever stored state changes,
// including changes made by a background analysis or another process.
type ChangedMsg struct {
	Type   string
	ItemID string
}

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Quiz    key.Binding
	Merge   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Quiz:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "take quiz")),
		Merge:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge into brain")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Quiz, k.Merge},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; rendering is delegated to the sub-views.
type Model struct {
	identity string
	ports    Ports

	libView      libraryview.Model
	readView     readerview.Model
	quizView     quizview.Model
	brainView    brainview.Model
	activityView activityview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// NewModel builds the root model. identity labels the signed-in session in
// the status bar.
func NewModel(identity string, ports Ports) Model {
	return Model{
		identity:     identity,
		ports:        ports,
		libView:      libraryview.New(ports.Library),
		readView:     readerview.New(ports.Reader),
		quizView:     quizview.New(ports.Quiz),
		brainView:    brainview.New(ports.Brain),
		activityView: activityview.New(ports.Activity),
		activeTab:    tabLibrary,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.libView.Init(),
		m.brainView.Init(),
		m.activityView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.libView.Reload()

	case ChangedMsg:
		return m, m.reloadFor(msg)

	// Results of async sub-view commands are routed to their owner regardless
	// of which tab is showing.
	case libraryview.ItemsLoadedMsg, libraryview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.libView, cmd = m.libView.Update(msg)
		return m, cmd

	case readerview.OpenedMsg:
		if msg.Err != nil {
			m.status = "reader: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("reading: %s", msg.Document.Title)
			m.activeTab = tabReader
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, tea.Batch(cmd, m.libView.Reload())

	case quizview.SessionMsg, quizview.DiscardedMsg:
		var cmd tea.Cmd
		m.quizView, cmd = m.quizView.Update(msg)
		return m, cmd

	case brainview.LoadedMsg, brainview.MergedMsg:
		var cmd tea.Cmd
		m.brainView, cmd = m.brainView.Update(msg)
		return m, cmd

	case activityview.LoadedMsg, activityview.PostedMsg:
		var cmd tea.Cmd
		m.activityView, cmd = m.activityView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabLibrary && m.libView.Filtering() {
			break
		}
		// Digits and enter answer the quiz while it runs.
		if m.activeTab == tabQuiz && m.quizView.Active() && msg.String() != "ctrl+c" &&
			msg.String() != "tab" && msg.String() != "shift+tab" && msg.String() != ":" {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open(m.paletteTarget())
			return m, cmd
		case "enter":
			if m.activeTab == tabLibrary {
				if id, ok := m.libView.SelectedItemID(); ok {
					cmd := m.readView.Open(id)
					return m, cmd
				}
			}
		case "t":
			if m.activeTab == tabLibrary {
				return m.startQuiz()
			}
		case "m":
			if m.activeTab == tabLibrary {
				return m.mergeSelected()
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	case tabQuiz:
		m.quizView, tabCmd = m.quizView.Update(msg)
	case tabBrain:
		m.brainView, tabCmd = m.brainView.Update(msg)
	case tabActivity:
		m.activityView, tabCmd = m.activityView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.View()
	case tabReader:
		return m.readView.View()
	case tabQuiz:
		return m.quizView.View()
	case tabBrain:
		return m.brainView.View()
	case tabActivity:
		return m.activityView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mindshelf  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Hot.Render("● "+m.identity) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]))
	selected, _ := m.libView.SelectedItemID()
	lib := m.ports.Library

	needsSelection := map[string]bool{
		"status": true, "reanalyze": true, "delete": true, "highlight": true,
		"open-external": true, "quiz": true, "brain:merge": true,
	}
	if needsSelection[parts[0]] && selected == "" {
		m.status = "no item selected"
		return m, nil
	}

	switch parts[0] {
	case "ingest":
		if rest == "" {
			m.status = "usage: ingest <url>"
			return m, nil
		}
		m.status = "ingesting " + rest
		return m, m.action("ingested "+rest, func(ctx context.Context) error {
			_, err := lib.IngestURL(ctx, rest, false)
			return err
		})

	case "ingest:doc":
		if rest == "" {
			m.status = "usage: ingest:doc <path>"
			return m, nil
		}
		m.status = "ingesting " + rest
		return m, m.action("ingested "+rest, func(ctx context.Context) error {
			_, err := lib.IngestDocument(ctx, rest, false)
			return err
		})

	case "status":
		if len(parts) < 2 {
			m.status = "usage: status <new|reading|practice|mastered> [force]"
			return m, nil
		}
		target := parts[1]
		force := len(parts) > 2 && parts[2] == "force"
		return m, m.action("status set to "+target, func(ctx context.Context) error {
			_, err := lib.UpdateStatus(ctx, selected, target, force)
			return err
		})

	case "reanalyze":
		m.status = "re-analyzing " + m.libView.SelectedItemTitle()
		return m, m.action("re-analyzed "+m.libView.SelectedItemTitle(), func(ctx context.Context) error {
			_, err := lib.Reanalyze(ctx, selected)
			return err
		})

	case "delete":
		return m, m.action("deleted "+m.libView.SelectedItemTitle(), func(ctx context.Context) error {
			return lib.Delete(ctx, selected)
		})

	case "highlight":
		if rest == "" {
			m.status = "usage: highlight <passage>"
			return m, nil
		}
		reader := m.ports.Reader
		return m, m.action("highlight saved", func(ctx context.Context) error {
			_, err := reader.Highlight(ctx, selected, rest)
			return err
		})

	case "open-external":
		external := m.ports.External
		return m, m.action("opened in browser", func(ctx context.Context) error {
			_, err := external.Open(ctx, selected, true)
			return err
		})

	case "quiz":
		return m.startQuiz()

	case "brain:merge":
		return m.mergeSelected()

	case "journal":
		if rest == "" {
			m.status = "usage: journal <text>"
			return m, nil
		}
		m.activeTab = tabActivity
		m.status = "journal entry posted"
		return m, m.activityView.Post(rest)

	case "refresh":
		m.status = "refreshed"
		return m, tea.Batch(m.libView.Reload(), m.brainView.Reload(), m.activityView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) paletteTarget() components.PaletteTarget {
	id, ok := m.libView.SelectedItemID()
	if !ok {
		return components.PaletteTarget{}
	}
	return components.PaletteTarget{ID: id, Title: m.libView.SelectedItemTitle(), Status: m.libView.SelectedItemStatus()}
}

func (m Model) startQuiz() (tea.Model, tea.Cmd) {
	id, ok := m.libView.SelectedItemID()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	m.activeTab = tabQuiz
	m.status = "quiz: " + m.libView.SelectedItemTitle()
	cmd := m.quizView.Start(id)
	return m, cmd
}

func (m Model) mergeSelected() (tea.Model, tea.Cmd) {
	id, ok := m.libView.SelectedItemID()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	m.activeTab = tabBrain
	m.status = "merging " + m.libView.SelectedItemTitle()
	cmd := m.brainView.Merge(id)
	return m, cmd
}

func (m Model) reloadFor(msg ChangedMsg) tea.Cmd {
	switch {
	case strings.HasPrefix(msg.Type, "item."):
		return m.libView.Reload()
	case strings.HasPrefix(msg.Type, "brain."):
		return m.brainView.Reload()
	case strings.HasPrefix(msg.Type, "activity."):
		return m.activityView.Reload()
	}
	return nil
}

func (m Model) action(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{status: done, err: fn(context.Background())}
	}
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.libView, _ = m.libView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
	m.quizView, _ = m.quizView.Update(sz)
	m.brainView, _ = m.brainView.Update(sz)
	m.activityView, _ = m.activityView.Update(sz)
}
