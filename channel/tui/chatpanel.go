package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/logger"
)

var (
	userMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	remoteMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF"))
	remoteNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")).Bold(true)
	systemMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	successMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF88"))
	warningMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00"))
	timestampStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ChatPanel displays the visible transcript in a scrollable viewport and the
// processing indicator while a reply is pending.
type ChatPanel struct {
	viewport viewport.Model
	spinner  spinner.Model
	botName  string
	markdown bool

	renderer      *glamour.TermRenderer
	rendererWidth int

	messages []chat.DisplayMessage
	pending  bool
	width    int
}

// NewChatPanel creates a chat panel. With markdown set, remote replies are
// rendered through glamour.
func NewChatPanel(botName string, markdown bool) *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &ChatPanel{
		viewport: vp,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(remoteNameStyle)),
		botName:  botName,
		markdown: markdown,
	}
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		if p.pending {
			p.refresh()
		}
		return p, cmd
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// SetTranscript replaces the displayed messages and scrolls to the newest one.
func (p *ChatPanel) SetTranscript(messages []chat.DisplayMessage, pending bool) {
	p.messages = messages
	p.pending = pending
	p.refresh()
	p.viewport.GotoBottom()
}

// Tick starts the processing indicator animation.
func (p *ChatPanel) Tick() tea.Cmd {
	return p.spinner.Tick
}

func (p *ChatPanel) refresh() {
	lines := make([]string, 0, len(p.messages)+1)
	for _, m := range p.messages {
		lines = append(lines, p.renderMessage(m))
	}
	if p.pending {
		lines = append(lines, p.spinner.View()+remoteMsgStyle.Render("["+p.botName+"] Processing query..."))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
}

func (p *ChatPanel) renderMessage(m chat.DisplayMessage) string {
	ts := timestampStyle.Render(m.Timestamp.Format("15:04:05")) + " "

	switch m.Origin {
	case chat.OriginUser:
		return ts + userMsgStyle.Render("> "+m.Text)
	case chat.OriginRemote:
		return ts + remoteNameStyle.Render("["+p.botName+"] ") + p.renderRemote(m.Text)
	}

	switch m.Severity {
	case chat.SeverityError:
		return ts + errorMsgStyle.Render(m.Text)
	case chat.SeveritySuccess:
		return ts + successMsgStyle.Render(m.Text)
	case chat.SeverityWarning:
		return ts + warningMsgStyle.Render(m.Text)
	}
	return ts + systemMsgStyle.Render(m.Text)
}

func (p *ChatPanel) renderRemote(text string) string {
	if !p.markdown || p.width <= 0 {
		return remoteMsgStyle.Render(text)
	}
	if p.renderer == nil || p.rendererWidth != p.width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(p.width),
		)
		if err != nil {
			logger.Warn("markdown renderer unavailable", "err", err)
			p.markdown = false
			return remoteMsgStyle.Render(text)
		}
		p.renderer, p.rendererWidth = r, p.width
	}
	out, err := p.renderer.Render(text)
	if err != nil {
		return remoteMsgStyle.Render(text)
	}
	return "\n" + strings.Trim(out, "\n")
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.width {
		p.width = width
		p.refresh()
	}
}
