package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/pellicle-io/pellicle/cli/reader"
)

// InspectModel is a Bubble Tea model for the dataset inspect view.
// Tab toggles the trend plot between cell and EPS counts.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	showEPS  bool
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			m.showEPS = !m.showEPS
			return m, nil
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_dataset":
		content = m.renderDataset()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("tab: toggle cells/EPS trend • q: quit")
	return content + "\n" + help
}

func (m InspectModel) renderDataset() string {
	data, ok := m.data.(*reader.Summary)
	if !ok {
		return "Invalid data type for inspect_dataset"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Dataset: " + data.Source))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Ticks", fmt.Sprintf("%d (%d..%d)", data.TickCount, data.FirstTick, data.LastTick)},
		{"Final Cells", fmt.Sprintf("%d", data.FinalCells)},
		{"Final EPS", fmt.Sprintf("%d", data.FinalEPS)},
		{"Rows Kept", fmt.Sprintf("%d of %d", data.RowsKept, data.RowsRead)},
		{"Viewport", fmt.Sprintf("(%.1f, %.1f) x (%.1f, %.1f)",
			data.Viewport.MinX, data.Viewport.MaxX, data.Viewport.MinY, data.Viewport.MaxY)},
	}
	if data.RowsDropped > 0 {
		rows = append(rows, []string{"Rows Dropped", fmt.Sprintf("%d", data.RowsDropped)})
	}
	if data.Unclassified > 0 {
		rows = append(rows, []string{"Unclassified", fmt.Sprintf("%d", data.Unclassified)})
	}

	for _, row := range rows {
		label := LabelStyle.Render(row[0] + ":")
		value := ValueStyle.Render(row[1])
		if row[0] == "Rows Dropped" {
			value = WarningStyle.Render(row[1])
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, value))
	}

	if len(data.Trend) > 1 {
		series := data.CellTrend()
		caption := "cell count by tick"
		if m.showEPS {
			series = data.EPSTrend()
			caption = "EPS count by tick"
		}

		width := m.width - 16
		if width < 20 {
			width = 60
		}
		plot := asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)
		b.WriteString("\n")
		b.WriteString(plot)
		b.WriteString("\n")
	}

	return BoxStyle.Render(b.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit   key.Binding
	Toggle key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle series"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
