package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mindshelf/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// PaletteTarget is the library item that item commands act on. A zero
// target hides those commands.
type PaletteTarget struct {
	ID     string
	Title  string
	Status string
}

type paletteCommand struct {
	name     string
	usage    string
	needItem bool
	args     func(PaletteTarget) []string
}

// lifecycleStages mirrors the library's new < reading < practice < mastered.
var lifecycleStages = []string{"new", "reading", "practice", "mastered"}

// paletteCommands must stay in sync with the switch in app/model.go executePalette.
var paletteCommands = []paletteCommand{
	{name: "ingest", usage: "ingest <url>"},
	{name: "ingest:doc", usage: "ingest:doc <path>"},
	{name: "status", usage: "status <new|reading|practice|mastered> [force]", needItem: true, args: statusArgs},
	{name: "reanalyze", usage: "reanalyze", needItem: true},
	{name: "delete", usage: "delete", needItem: true},
	{name: "highlight", usage: "highlight <passage>", needItem: true},
	{name: "open-external", usage: "open-external", needItem: true},
	{name: "quiz", usage: "quiz", needItem: true},
	{name: "brain:merge", usage: "brain:merge", needItem: true},
	{name: "journal", usage: "journal <text>"},
	{name: "refresh", usage: "refresh"},
}

// statusArgs lists the stages ahead of the item first; going back needs force.
func statusArgs(t PaletteTarget) []string {
	current := -1
	for i, stage := range lifecycleStages {
		if stage == t.Status {
			current = i
		}
	}
	var ahead, behind []string
	for i, stage := range lifecycleStages {
		switch {
		case i > current:
			ahead = append(ahead, stage)
		case i < current:
			behind = append(behind, stage+" force")
		}
	}
	return append(ahead, behind...)
}

// Palette is a command-palette overlay backed by bubbles/textinput. Tab
// completes command names and, for status, the item's next stages.
type Palette struct {
	input   textinput.Model
	target  PaletteTarget
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette for target, clears the input, and returns the
// focus command.
func (p *Palette) Open(target PaletteTarget) tea.Cmd {
	p.visible = true
	p.target = target
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

// Value returns the current input.
func (p Palette) Value() string { return p.input.Value() }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) complete() {
	candidates := p.candidates(p.input.Value())
	if len(candidates) == 0 {
		return
	}
	completed := commonPrefix(candidates)
	if len(candidates) == 1 && !strings.Contains(completed, " ") {
		completed += " "
	}
	p.input.SetValue(completed)
	p.input.CursorEnd()
}

// candidates returns full inputs that extend value: command names while the
// first word is being typed, then the command's argument suggestions.
func (p Palette) candidates(value string) []string {
	value = strings.TrimLeft(strings.ToLower(value), " ")
	name, partial, hasArg := strings.Cut(value, " ")
	var out []string
	for _, c := range paletteCommands {
		if c.needItem && p.target.ID == "" {
			continue
		}
		if !hasArg {
			if strings.HasPrefix(c.name, name) {
				out = append(out, c.name)
			}
			continue
		}
		if c.name != name || c.args == nil {
			continue
		}
		partial = strings.TrimLeft(partial, " ")
		for _, arg := range c.args(p.target) {
			if strings.HasPrefix(arg, partial) {
				out = append(out, c.name+" "+arg)
			}
		}
	}
	return out
}

func (p Palette) hints() []string {
	value := strings.TrimLeft(strings.ToLower(p.input.Value()), " ")
	if _, _, hasArg := strings.Cut(value, " "); hasArg {
		return p.candidates(value)
	}
	var out []string
	for _, c := range paletteCommands {
		if c.needItem && p.target.ID == "" {
			continue
		}
		if strings.HasPrefix(c.name, value) {
			out = append(out, c.usage)
		}
	}
	return out
}

func commonPrefix(values []string) string {
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := p.hints()
	if len(matching) > 6 {
		matching = matching[:6]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	if p.target.ID != "" {
		sb.WriteString(hintStyle.Render("on "+p.target.Title+" ["+p.target.Status+"]") + "\n")
	}
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
