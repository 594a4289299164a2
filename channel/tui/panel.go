// Package tui provides the terminal user interface: the falling-glyph rain,
// the status bar, the chat transcript and the input line.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/status"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }

// ReplyMsg carries the outcome of a finished chat task back to the UI loop.
type ReplyMsg struct{ Reply chat.Reply }

// EndpointMsg asks the widget to switch to a new webhook URL.
type EndpointMsg struct{ URL string }

// StatusMsg carries a status bar refresh.
type StatusMsg struct{ Update status.Update }

// DismissMsg hides an expired error message.
type DismissMsg struct{ ID string }

// frameMsg drives the rain at display rate.
type frameMsg time.Time

// resizeMsg applies a debounced terminal size to the rain.
type resizeMsg struct {
	seq           int
	width, height int
}
