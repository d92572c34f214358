package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pellicle-io/pellicle/metrics"
)

// StatsModel is a Bubble Tea model for run statistics views.
type StatsModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(viewType string, data any) StatsModel {
	return StatsModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "stats_run":
		content = m.renderRunStats()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m StatsModel) renderRunStats() string {
	data, ok := m.data.(*metrics.Snapshot)
	if !ok {
		return "Invalid data type for stats_run"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Run %s (%s)", data.RunID, data.Mode)))
	b.WriteString("\n\n")

	frames := []string{
		m.renderStatBox("Composed", data.FramesComposed, highlightColor),
		m.renderStatBox("Written", data.FramesWritten, successColor),
		m.renderStatBox("Skipped", data.FramesSkipped, warningColor),
		m.renderStatBox("Rejected", data.ShapesRejected, errorColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, frames...))
	b.WriteString("\n\n")

	rows := []string{
		m.renderStatBox("Rows Kept", data.RowsKept, highlightColor),
		m.renderStatBox("Rows Dropped", data.RowsDropped, warningColor),
		m.renderStatBox("Fallbacks", data.SinkFallbacks, warningColor),
		m.renderStatBox("Store Writes", data.StoreWriteSuccess, successColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rows...))

	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Sink:"),
		ValueStyle.Render(data.Sink)))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Storage:"),
		ValueStyle.Render(data.StorageBackend)))

	return b.String()
}

func (m StatsModel) renderStatBox(label string, value int64, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunStatsTUI runs the stats TUI.
func RunStatsTUI(viewType string, data any) error {
	model := NewStatsModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
