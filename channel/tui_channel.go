package channel

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linanwx/matrixchat/channel/tui"
	"github.com/linanwx/matrixchat/logger"
	"github.com/linanwx/matrixchat/status"
)

// TUIChannel hosts the widget in a full-screen bubbletea program.
type TUIChannel struct {
	opts Options

	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
	done    bool
}

func newTUIChannel(opts Options) *TUIChannel {
	return &TUIChannel{opts: opts}
}

func (c *TUIChannel) Name() string { return "tui" }

func (c *TUIChannel) Run(ctx context.Context) error {
	cfg := c.opts.Config
	app := tui.NewApp(ctx, tui.Options{
		Widget:    c.opts.Widget,
		Rain:      rainOptions(cfg),
		RainOn:    cfg.MatrixEnabled(),
		RainRatio: cfg.Matrix.HeightRatio,
		Markdown:  cfg.Chat.Markdown,
	})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// The terminal belongs to the program; log records only go to the file.
	logger.Intercept(io.Discard)
	defer logger.Restore()

	c.mu.Lock()
	c.program = program
	queued := c.pending
	c.pending = nil
	c.mu.Unlock()

	go func() {
		for _, msg := range queued {
			program.Send(msg)
		}
	}()

	logger.Info("chat started (TUI mode)")
	_, err := program.Run()

	c.mu.Lock()
	c.program = nil
	c.done = true
	c.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (c *TUIChannel) SetEndpoint(url string) {
	c.send(tui.EndpointMsg{URL: url})
}

func (c *TUIChannel) UpdateStatus(u status.Update) {
	c.send(tui.StatusMsg{Update: u})
}

// send forwards msg into the program, queueing it until the program exists.
func (c *TUIChannel) send(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	if c.done {
		c.mu.Unlock()
		return
	}
	if p == nil {
		c.pending = append(c.pending, msg)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	p.Send(msg)
}
