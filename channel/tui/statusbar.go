package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linanwx/matrixchat/status"
)

var (
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF"))
	onlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF88")).Bold(true)
	busyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00"))
)

// StatusBar shows the clock, the latency figure and the connection mode.
type StatusBar struct {
	board   status.Board
	botName string
	width   int
}

// NewStatusBar creates a status bar for the named agent.
func NewStatusBar(botName string) *StatusBar {
	return &StatusBar{botName: botName}
}

func (p *StatusBar) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(StatusMsg); ok {
		p.board.Apply(msg.Update)
	}
	return p, nil
}

// SetConnection refreshes the fields owned by the chat widget.
func (p *StatusBar) SetConnection(endpoint string, pending bool) {
	p.board.Endpoint = endpoint
	p.board.Pending = pending
}

func (p *StatusBar) View() string {
	state := p.board.StateText()
	if p.board.Pending {
		state = busyStyle.Render(state)
	}
	left := onlineStyle.Render("● "+p.botName) + statusBarStyle.Render(" ONLINE")
	right := statusBarStyle.Render(strings.Join([]string{
		p.board.ClockText(),
		"LAT " + p.board.LatencyText(),
		p.board.ModeText(),
	}, "  ")) + "  " + state

	gap := p.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (p *StatusBar) SetSize(width, _ int) {
	p.width = width
}
