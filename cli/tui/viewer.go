package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pellicle-io/pellicle/sink"
)

// ShowFrames is the sink.Viewer implementation: an interactive frame
// player rendering each frame as half-block terminal cells.
func ShowFrames(ctx context.Context, meta sink.StreamMeta, frames []*sink.RenderedFrame) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to display")
	}
	model := newViewerModel(meta, frames)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// viewerKeyMap defines the player key bindings.
type viewerKeyMap struct {
	Quit key.Binding
	Prev key.Binding
	Next key.Binding
	Play key.Binding
}

var viewerKeys = viewerKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous frame"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next frame"),
	),
	Play: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
}

// playTickMsg advances playback.
type playTickMsg struct{}

type viewerModel struct {
	meta    sink.StreamMeta
	frames  []*sink.RenderedFrame
	current int
	playing bool
	width   int
	height  int
}

func newViewerModel(meta sink.StreamMeta, frames []*sink.RenderedFrame) viewerModel {
	return viewerModel{meta: meta, frames: frames}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) playCmd() tea.Cmd {
	fps := m.meta.FPS
	if fps < 1 {
		fps = sink.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return playTickMsg{}
	})
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case playTickMsg:
		if !m.playing {
			return m, nil
		}
		m.current++
		if m.current >= len(m.frames) {
			m.current = len(m.frames) - 1
			m.playing = false
			return m, nil
		}
		return m, m.playCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewerKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, viewerKeys.Prev):
			m.playing = false
			if m.current > 0 {
				m.current--
			}
		case key.Matches(msg, viewerKeys.Next):
			m.playing = false
			if m.current < len(m.frames)-1 {
				m.current++
			}
		case key.Matches(msg, viewerKeys.Play):
			m.playing = !m.playing
			if m.playing {
				return m, m.playCmd()
			}
		}
	}

	return m, nil
}

func (m viewerModel) View() string {
	frame := m.frames[m.current]

	cols, rows := m.width, (m.height-4)*2
	if cols < 10 || rows < 10 {
		cols, rows = 80, 48
	}

	var b strings.Builder
	b.WriteString(renderHalfBlocks(frame.Image, cols, rows))
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render(frame.Caption))
	b.WriteString("\n")
	status := fmt.Sprintf("frame %d/%d", m.current+1, len(m.frames))
	if m.playing {
		status += "  playing"
	}
	b.WriteString(HelpStyle.Render(status + "  •  ←/→ step, space play, q quit"))
	return b.String()
}

// renderHalfBlocks downsamples the image onto a cols x rows pixel grid
// and emits one "▀" per character cell, pairing two vertical pixels as
// foreground and background colors.
func renderHalfBlocks(img *image.RGBA, cols, rows int) string {
	bounds := img.Bounds()
	sx := float64(bounds.Dx()) / float64(cols)
	sy := float64(bounds.Dy()) / float64(rows)

	var b strings.Builder
	for row := 0; row+1 < rows; row += 2 {
		for col := 0; col < cols; col++ {
			top := img.RGBAAt(bounds.Min.X+int(float64(col)*sx), bounds.Min.Y+int(float64(row)*sy))
			bot := img.RGBAAt(bounds.Min.X+int(float64(col)*sx), bounds.Min.Y+int(float64(row+1)*sy))
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bot.R, bot.G, bot.B)))
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
