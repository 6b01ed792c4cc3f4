package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
)

// helpView lists every dashboard binding in a scrollable viewport.
type helpView struct {
	state *SharedState
	vp    viewport.Model
}

func newHelpView(state *SharedState, keys dashboardKeys) *helpView {
	vp := viewport.New(state.Width, state.ContentHeight())
	vp.MouseWheelEnabled = true
	vp.SetContent(renderHelp(keys))
	return &helpView{state: state, vp: vp}
}

// renderHelp lays the binding sections out in columns so the whole page
// fits a 24-line terminal.
func renderHelp(keys dashboardKeys) string {
	column := lipgloss.NewStyle().Width(32)
	section := func(title string, bindings ...key.Binding) string {
		var b strings.Builder
		b.WriteString(formatter.Header(title))
		for _, k := range bindings {
			h := k.Help()
			b.WriteString("\n  " + formatter.PadRight(formatter.Bold(h.Key), 10) + h.Desc)
		}
		return column.Render(b.String())
	}

	var mouse strings.Builder
	mouse.WriteString(formatter.Header("Mouse"))
	for _, line := range []string{
		"drag a bar to move it; drag its first or last column to resize",
		"drag across an empty row to create a task",
		"drag on an unscheduled task to set its dates",
		"click a bar to edit the task",
		"drag a task in the outline onto another row or a header to reorder",
		"click a phase or category header to collapse it",
		"wheel scrolls rows; shift+wheel scrolls days",
	} {
		mouse.WriteString("\n  " + line)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		section("Outline", keys.Up, keys.Down, keys.Toggle, keys.Indent, keys.Outdent, keys.MoveDown, keys.MoveUp),
		section("Edit", keys.Add, keys.Edit, keys.Delete, keys.Status, keys.AddPhase, keys.AddCategory),
		section("Timeline", keys.Left, keys.Right, keys.Today, keys.YearStart, keys.PrevYear, keys.NextYear, keys.Goto),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		section("View", keys.PhaseFilter, keys.OwnerFilter, keys.Refresh, keys.Help, keys.Quit),
		mouse.String(),
	)
	return top + "\n\n" + bottom + "\n"
}

func (v *helpView) Init() tea.Cmd { return nil }

func (v *helpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil
	case tea.KeyMsg:
		if msg.String() == "?" {
			return v, popView()
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *helpView) View() string  { return v.vp.View() }
func (v *helpView) ID() ViewID    { return ViewHelp }
func (v *helpView) Title() string { return "Help" }
func (v *helpView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
		key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "close")),
	}
}
