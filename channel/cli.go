package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/logger"
	"github.com/linanwx/matrixchat/status"
	"golang.org/x/term"
)

// NewCLIChannel creates the interactive channel.
// If stdin is a terminal and plain is false, it returns the TUI channel;
// otherwise a line-oriented channel on stdin/stdout.
func NewCLIChannel(opts Options, plain bool) Channel {
	if !plain && term.IsTerminal(int(os.Stdin.Fd())) {
		return newTUIChannel(opts)
	}
	return NewPlainChannel(opts.Widget, os.Stdin, os.Stdout)
}

// PlainChannel reads one message per line and prints every new transcript
// entry. Tasks run synchronously, so a submission is never rejected as busy.
type PlainChannel struct {
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	widget  *chat.Widget
	printed int
}

// NewPlainChannel creates a line channel over in and out.
func NewPlainChannel(w *chat.Widget, in io.Reader, out io.Writer) *PlainChannel {
	return &PlainChannel{widget: w, in: in, out: out}
}

func (c *PlainChannel) Name() string { return "plain" }

func (c *PlainChannel) Run(ctx context.Context) error {
	logger.Info("chat started (plain mode)")

	c.mu.Lock()
	greeting := c.widget.Greet()
	c.flush()
	c.mu.Unlock()
	c.complete(c.widget.Run(ctx, greeting))

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if isQuit(line) {
				fmt.Fprintln(c.out, "Goodbye!")
				return nil
			}
			c.submit(ctx, line)
		}
	}
}

func (c *PlainChannel) submit(ctx context.Context, line string) {
	c.mu.Lock()
	task, err := c.widget.Submit(line)
	c.flush()
	c.mu.Unlock()
	if err != nil {
		logger.Warn("submission rejected", "err", err)
		return
	}
	if task == nil {
		return
	}
	c.complete(c.widget.Run(ctx, task))
}

func (c *PlainChannel) complete(reply chat.Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widget.Complete(reply)
	c.flush()
}

func (c *PlainChannel) SetEndpoint(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widget.ConfigureEndpoint(url)
	c.flush()
}

// UpdateStatus is a no-op: the plain channel has no status line.
func (c *PlainChannel) UpdateStatus(status.Update) {}

func (c *PlainChannel) prompt() {
	fmt.Fprint(c.out, c.widget.BotName()+"> ")
}

// flush prints log entries not printed yet. Callers hold c.mu.
func (c *PlainChannel) flush() {
	log := c.widget.Log()
	for _, m := range log[c.printed:] {
		if m.Origin == chat.OriginUser {
			continue
		}
		fmt.Fprintln(c.out, FormatLine(m, c.widget.BotName()))
	}
	c.printed = len(log)
}

// FormatLine renders a message for line-oriented output.
func FormatLine(m chat.DisplayMessage, botName string) string {
	switch m.Origin {
	case chat.OriginUser:
		return "> " + m.Text
	case chat.OriginRemote:
		return "[" + botName + "] " + m.Text
	}
	if m.Severity == chat.SeverityNormal {
		return "[SYSTEM] " + m.Text
	}
	return "[" + strings.ToUpper(m.Severity.String()) + "] " + m.Text
}

func isQuit(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/exit", "/quit":
		return true
	}
	return false
}
