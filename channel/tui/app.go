package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/logger"
	"github.com/linanwx/matrixchat/matrix"
)

const (
	defaultRainRatio = 0.35
	resizeDebounce   = 100 * time.Millisecond
)

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#004466"))

// Options configures the App.
type Options struct {
	Widget    *chat.Widget
	Rain      matrix.Options
	RainOn    bool
	RainRatio float64
	Markdown  bool
}

// App is the root bubbletea model that orchestrates panels and layout. It
// owns the chat widget: every widget call happens inside Update.
type App struct {
	ctx    context.Context
	widget *chat.Widget

	rainPanel  *RainPanel
	statusBar  *StatusBar
	chatPanel  *ChatPanel
	inputPanel *InputPanel

	width, height int
	rainRatio     float64
	resizeSeq     int
}

// NewApp creates the root TUI model. ctx bounds the chat tasks it starts.
func NewApp(ctx context.Context, opts Options) *App {
	ratio := opts.RainRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = defaultRainRatio
	}
	w := opts.Widget
	return &App{
		ctx:        ctx,
		widget:     w,
		rainPanel:  NewRainPanel(opts.Rain, opts.RainOn),
		statusBar:  NewStatusBar(w.BotName()),
		chatPanel:  NewChatPanel(w.BotName(), opts.Markdown),
		inputPanel: NewInputPanel(w.BotName() + "> "),
		rainRatio:  ratio,
	}
}

func (m *App) Init() tea.Cmd {
	greeting := m.widget.Greet()
	m.refreshTranscript()
	return tea.Batch(frameTick(), m.chatPanel.Tick(), m.run(greeting))
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0 && m.height == 0
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if first {
			m.rainPanel.SetSize(m.width, m.rainHeight())
			return m, nil
		}
		m.resizeSeq++
		seq, width, height := m.resizeSeq, m.width, m.rainHeight()
		return m, tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
			return resizeMsg{seq: seq, width: width, height: height}
		})

	case resizeMsg:
		if msg.seq == m.resizeSeq {
			m.rainPanel.SetSize(msg.width, msg.height)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			p, cmd := m.chatPanel.Update(msg)
			m.chatPanel = p.(*ChatPanel)
			return m, cmd
		}
		// All other keys go to input panel.
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p.(*InputPanel)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)

	case InputSubmitMsg:
		if isQuit(msg.Text) {
			return m, tea.Quit
		}
		task, err := m.widget.Submit(msg.Text)
		if errors.Is(err, chat.ErrBusy) {
			logger.Debug("submission ignored while a reply is pending")
			return m, nil
		}
		m.inputPanel.Reset()
		m.refreshTranscript()
		if task != nil {
			cmds = append(cmds, m.run(task))
		}

	case ReplyMsg:
		added, ok := m.widget.Complete(msg.Reply)
		m.refreshTranscript()
		if ok && added.Severity == chat.SeverityError {
			id := added.ID
			cmds = append(cmds, tea.Tick(chat.ErrorTTL, func(time.Time) tea.Msg { return DismissMsg{ID: id} }))
		}

	case DismissMsg:
		if m.widget.Dismiss(msg.ID) {
			m.refreshTranscript()
		}

	case EndpointMsg:
		m.widget.ConfigureEndpoint(msg.URL)
		m.refreshTranscript()

	case StatusMsg:
		p, cmd := m.statusBar.Update(msg)
		m.statusBar = p.(*StatusBar)
		cmds = append(cmds, cmd)

	case frameMsg:
		p, cmd := m.rainPanel.Update(msg)
		m.rainPanel = p.(*RainPanel)
		cmds = append(cmds, cmd)

	default:
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)
		// Broadcast unknown messages to input panel (e.g. blink cursor).
		ip, icmd := m.inputPanel.Update(msg)
		m.inputPanel = ip.(*InputPanel)
		cmds = append(cmds, icmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		m.rainPanel.View(),
		sep,
		m.chatPanel.View(),
		sep,
		m.inputPanel.View(),
	)
}

// run wraps a chat task as a command. The task only touches state captured
// when it was created, so it may run off the UI loop.
func (m *App) run(task *chat.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		return ReplyMsg{Reply: w.Run(ctx, task)}
	}
}

func (m *App) refreshTranscript() {
	m.chatPanel.SetTranscript(m.widget.Visible(), m.widget.Pending())
	m.statusBar.SetConnection(m.widget.Endpoint(), m.widget.Pending())
}

func (m *App) rainHeight() int {
	return max(int(float64(m.usableHeight())*m.rainRatio), 1)
}

func (m *App) usableHeight() int {
	const statusH = 1
	const inputH = 1
	const sepLines = 2 // two separator lines
	return max(m.height-statusH-inputH-sepLines, 2)
}

func (m *App) recalcLayout() {
	usable := m.usableHeight()
	chatH := max(usable-m.rainHeight(), 1)

	m.statusBar.SetSize(m.width, 1)
	m.chatPanel.SetSize(m.width, chatH)
	m.inputPanel.SetSize(m.width, 1)
}

func isQuit(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/exit", "/quit":
		return true
	}
	return false
}
