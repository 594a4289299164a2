package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linanwx/matrixchat/matrix"
)

// displayInterval is how often the rain is offered a frame. The rain itself
// decides whether enough time has passed to draw one.
const displayInterval = 16 * time.Millisecond

// RainPanel renders the falling-glyph background.
type RainPanel struct {
	rain    *matrix.Rain
	enabled bool

	width, height int
}

// NewRainPanel creates a rain panel. A disabled panel renders blank lines.
func NewRainPanel(opts matrix.Options, enabled bool) *RainPanel {
	return &RainPanel{rain: matrix.New(opts), enabled: enabled}
}

func (p *RainPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(frameMsg); ok {
		if !p.enabled {
			return p, nil
		}
		p.rain.Advance(time.Time(msg))
		return p, frameTick()
	}
	return p, nil
}

func (p *RainPanel) View() string {
	if p.height <= 0 {
		return ""
	}
	if !p.enabled {
		return strings.Repeat("\n", p.height-1)
	}
	return p.rain.Render()
}

// SetSize resizes the canvas. Callers debounce bursts of terminal resizes.
func (p *RainPanel) SetSize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.rain.Resize(width, height)
}

func frameTick() tea.Cmd {
	return tea.Tick(displayInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}
