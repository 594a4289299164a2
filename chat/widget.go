package chat

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/linanwx/matrixchat/logger"
	"github.com/linanwx/matrixchat/webhook"
)

const (
	// ErrorTTL is how long error messages stay in the visible transcript.
	ErrorTTL = 10 * time.Second

	commandReplyDelay = 500 * time.Millisecond
	greetingDelay     = 1 * time.Second

	defaultBotName = "ORACLE"
	defaultPrefix  = "/"
)

// ErrBusy is returned by Submit while a previous message is still being processed.
var ErrBusy = errors.New("chat: a message is already being processed")

// State is the submission state of the widget.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// TaskKind selects how a Task produces its reply.
type TaskKind int

const (
	// TaskRemote calls the configured webhook.
	TaskRemote TaskKind = iota
	// TaskSimulated waits and returns a canned reply.
	TaskSimulated
	// TaskNotice waits and returns a system notice (command output, greeting).
	TaskNotice
)

// Task is the asynchronous half of a submission. Everything it needs is
// captured when it is created, so Run never reads widget state.
type Task struct {
	Kind     TaskKind
	Input    string
	Endpoint string
	Delay    time.Duration
	Text     string
	Severity Severity
}

// Reply is the outcome of running a Task.
type Reply struct {
	Task *Task
	Text string
	Err  error
}

// Caller sends a message to a remote endpoint.
type Caller interface {
	Call(ctx context.Context, base, message string) (string, error)
}

// Options configures a Widget.
type Options struct {
	BotName       string
	CommandPrefix string
	Endpoint      string
	Caller        Caller
	Clock         clockwork.Clock
	Rand          *rand.Rand
}

// Widget owns the conversation. It is driven from a single goroutine (the UI
// loop); only Run may be called from elsewhere.
type Widget struct {
	botName  string
	prefix   string
	endpoint string
	caller   Caller
	clock    clockwork.Clock
	rnd      *rand.Rand

	log       Log
	clearMark int
	dismissed map[string]bool

	state    State
	inflight *Task
}

// New creates a widget in the idle state.
func New(opts Options) *Widget {
	w := &Widget{
		botName:   strings.TrimSpace(opts.BotName),
		prefix:    opts.CommandPrefix,
		endpoint:  strings.TrimSpace(opts.Endpoint),
		caller:    opts.Caller,
		clock:     opts.Clock,
		rnd:       opts.Rand,
		dismissed: make(map[string]bool),
	}
	if w.botName == "" {
		w.botName = defaultBotName
	}
	if w.prefix == "" {
		w.prefix = defaultPrefix
	}
	if w.clock == nil {
		w.clock = clockwork.NewRealClock()
	}
	if w.rnd == nil {
		w.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return w
}

// BotName returns the display name of the remote agent.
func (w *Widget) BotName() string { return w.botName }

// Endpoint returns the configured webhook URL; empty means simulation mode.
func (w *Widget) Endpoint() string { return w.endpoint }

// State returns the current submission state.
func (w *Widget) State() State { return w.state }

// Pending reports whether the processing indicator should be shown.
func (w *Widget) Pending() bool { return w.state == StateAwaitingResponse }

// Log returns every message ever appended, including hidden ones.
func (w *Widget) Log() []DisplayMessage { return w.log.All() }

// Visible returns the transcript as it should be displayed.
func (w *Widget) Visible() []DisplayMessage {
	src := w.log.since(w.clearMark)
	out := make([]DisplayMessage, 0, len(src))
	for _, m := range src {
		if w.dismissed[m.ID] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Submit handles one line of user input.
//
// Empty input is a no-op and returns (nil, nil). Known local commands are
// answered locally and are accepted in any state. Any other input is rejected
// with ErrBusy while a reply is pending. Otherwise the user message is
// appended, the widget enters awaiting-response and the returned Task must be
// run and passed to Complete. The caller clears its input whenever a Task is
// returned.
func (w *Widget) Submit(raw string) (*Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}

	if cmd, ok := lookupCommand(w.prefix, text); ok {
		return w.runCommand(cmd, text), nil
	}

	if w.state == StateAwaitingResponse {
		return nil, ErrBusy
	}

	w.append(text, OriginUser, SeverityNormal)

	task := &Task{Input: text}
	if w.endpoint != "" {
		task.Kind = TaskRemote
		task.Endpoint = w.endpoint
	} else {
		task.Kind = TaskSimulated
		task.Delay = simulatedDelay(w.rnd)
		task.Text = simulatedReply(w.rnd, text)
	}

	w.state = StateAwaitingResponse
	w.inflight = task
	return task, nil
}

func (w *Widget) runCommand(cmd command, text string) *Task {
	w.append(text, OriginUser, SeverityNormal)

	if cmd.clearView {
		w.clearMark = w.log.Len()
		w.append("Terminal cleared.", OriginSystem, SeverityNormal)
	}

	task := &Task{Kind: TaskNotice, Input: text, Severity: SeverityNormal}
	if cmd.describe != nil {
		task.Delay = commandReplyDelay
		task.Text = cmd.describe(w)
	}
	return task
}

// Run executes a task and blocks until it produces a reply or ctx is done.
// It is safe to call from any goroutine.
func (w *Widget) Run(ctx context.Context, task *Task) Reply {
	reply := Reply{Task: task}

	switch task.Kind {
	case TaskRemote:
		if w.caller == nil {
			reply.Err = errors.New("no webhook client configured")
			return reply
		}
		text, err := w.caller.Call(ctx, task.Endpoint, task.Input)
		if err != nil {
			logger.Warn("webhook call failed", "err", err)
			reply.Err = err
			return reply
		}
		reply.Text = text

	default:
		if err := w.sleep(ctx, task.Delay); err != nil {
			reply.Err = err
			return reply
		}
		reply.Text = task.Text
	}
	return reply
}

func (w *Widget) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-w.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Complete applies the reply of a finished task and returns the message it
// appended, if any. A submission reply always appends exactly one message and
// returns the widget to idle.
func (w *Widget) Complete(reply Reply) (DisplayMessage, bool) {
	task := reply.Task
	if task == nil {
		return DisplayMessage{}, false
	}

	if task.Kind == TaskNotice {
		if reply.Err != nil || reply.Text == "" {
			return DisplayMessage{}, false
		}
		return w.append(reply.Text, OriginSystem, task.Severity), true
	}

	if task != w.inflight {
		logger.Warn("ignoring reply for a task that is not in flight", "input", task.Input)
		return DisplayMessage{}, false
	}
	w.state = StateIdle
	w.inflight = nil

	if reply.Err != nil {
		return w.append("Error: "+w.describeError(reply.Err), OriginSystem, SeverityError), true
	}
	return w.append(reply.Text, OriginRemote, SeverityNormal), true
}

func (w *Widget) describeError(err error) string {
	var statusErr *webhook.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	msg := err.Error()
	if msg == "" {
		return "Unable to connect to " + w.botName + " backend. Please check your connection and try again."
	}
	return "Failed to connect to " + w.botName + ": " + msg
}

// ConfigureEndpoint replaces the webhook URL. It only affects later submissions.
func (w *Widget) ConfigureEndpoint(url string) {
	url = strings.TrimSpace(url)
	w.endpoint = url
	if url == "" {
		w.append("Webhook removed. Running in simulation mode.", OriginSystem, SeverityWarning)
		return
	}
	w.append("Webhook configured: "+url, OriginSystem, SeverityNormal)
	w.append(w.botName+" is now connected and ready for full interaction.", OriginSystem, SeveritySuccess)
}

// Greet shows the connection banner and returns the delayed follow-up notice.
// The follow-up is the same in simulation mode; /status tells the modes apart.
func (w *Widget) Greet() *Task {
	w.append("Connecting to "+w.botName+" backend...", OriginSystem, SeverityNormal)
	return &Task{
		Kind:     TaskNotice,
		Delay:    greetingDelay,
		Text:     "✓ Connected to " + w.botName + " agent. Ready for interaction!",
		Severity: SeveritySuccess,
	}
}

// Dismiss hides a message from the visible transcript. The log keeps it.
func (w *Widget) Dismiss(id string) bool {
	for _, m := range w.log.since(w.clearMark) {
		if m.ID == id && !w.dismissed[id] {
			w.dismissed[id] = true
			return true
		}
	}
	return false
}

func (w *Widget) append(text string, origin Origin, severity Severity) DisplayMessage {
	return w.log.Append(text, origin, severity, w.clock.Now())
}
