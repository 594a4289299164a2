package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/matrix"
	"github.com/linanwx/matrixchat/status"
	"github.com/linanwx/matrixchat/webhook"
)

type stubCaller struct {
	reply string
	err   error
}

func (s stubCaller) Call(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func newTestApp(t *testing.T, endpoint string, caller chat.Caller) *App {
	t.Helper()
	w := chat.New(chat.Options{
		Endpoint: endpoint,
		Caller:   caller,
		Clock:    clockwork.NewFakeClockAt(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)),
		Rand:     rand.New(rand.NewPCG(11, 13)),
	})
	app := NewApp(context.Background(), Options{
		Widget: w,
		Rain:   matrix.Options{Rand: rand.New(rand.NewPCG(1, 2))},
		RainOn: true,
	})
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return app
}

func TestResizeIsDebounced(t *testing.T) {
	app := newTestApp(t, "", nil)
	if w, _ := app.rainPanel.rain.Size(); w != 80 {
		t.Fatalf("initial rain width = %d, want 80", w)
	}

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	first := app.resizeSeq
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	last := app.resizeSeq

	app.Update(resizeMsg{seq: first, width: 100, height: app.rainHeight()})
	if w, _ := app.rainPanel.rain.Size(); w != 80 {
		t.Fatalf("stale resize applied: width = %d, want 80", w)
	}

	app.Update(resizeMsg{seq: last, width: 120, height: app.rainHeight()})
	if w, _ := app.rainPanel.rain.Size(); w != 120 {
		t.Fatalf("rain width = %d, want 120", w)
	}
	if got := len(app.rainPanel.rain.Columns()); got != 120 {
		t.Fatalf("columns = %d, want 120", got)
	}
}

func TestSubmitClearsInputAndStartsTask(t *testing.T) {
	app := newTestApp(t, "https://hook.example", stubCaller{reply: "pong"})

	app.inputPanel.SetValue("ping")
	_, cmd := app.Update(InputSubmitMsg{Text: "ping"})
	if cmd == nil {
		t.Fatal("expected a task command")
	}
	if got := app.inputPanel.Value(); got != "" {
		t.Fatalf("input = %q, want cleared", got)
	}
	if !app.widget.Pending() {
		t.Fatal("widget should be pending")
	}

	app.Update(ReplyMsg{Reply: app.widget.Run(context.Background(), &chat.Task{})})
	// The reply above belongs to no in-flight task and must be ignored.
	if !app.widget.Pending() {
		t.Fatal("stray reply completed the in-flight submission")
	}
}

func TestBusySubmitKeepsInput(t *testing.T) {
	app := newTestApp(t, "https://hook.example", stubCaller{reply: "pong"})

	app.Update(InputSubmitMsg{Text: "first"})
	app.inputPanel.SetValue("second")
	_, cmd := app.Update(InputSubmitMsg{Text: "second"})
	if cmd != nil {
		t.Fatal("busy submission should not start a task")
	}
	if got := app.inputPanel.Value(); got != "second" {
		t.Fatalf("input = %q, want it kept", got)
	}
	n := 0
	for _, m := range app.widget.Log() {
		if m.Origin == chat.OriginUser {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("user messages = %d, want 1", n)
	}
}

func TestErrorReplySchedulesDismissal(t *testing.T) {
	app := newTestApp(t, "https://hook.example", stubCaller{err: &webhook.StatusError{Code: 502}})

	_, cmd := app.Update(InputSubmitMsg{Text: "hello"})
	reply := drainReply(t, cmd)

	_, cmd = app.Update(reply)
	if cmd == nil {
		t.Fatal("error reply should schedule a dismissal")
	}

	var errMsg chat.DisplayMessage
	for _, m := range app.widget.Visible() {
		if m.Severity == chat.SeverityError {
			errMsg = m
		}
	}
	if errMsg.Text != "Error: HTTP error! status: 502" {
		t.Fatalf("error message = %q", errMsg.Text)
	}

	app.Update(DismissMsg{ID: errMsg.ID})
	for _, m := range app.widget.Visible() {
		if m.ID == errMsg.ID {
			t.Fatal("error message still visible after dismissal")
		}
	}
}

func TestEndpointMsgReconfigures(t *testing.T) {
	app := newTestApp(t, "", stubCaller{reply: "ok"})
	app.Update(EndpointMsg{URL: "https://new.example/hook"})
	if got := app.widget.Endpoint(); got != "https://new.example/hook" {
		t.Fatalf("endpoint = %q", got)
	}
	if got := app.statusBar.board.ModeText(); got != "WEBHOOK" {
		t.Fatalf("status mode = %q, want WEBHOOK", got)
	}
}

func TestStatusMsgUpdatesBar(t *testing.T) {
	app := newTestApp(t, "", nil)
	app.Update(StatusMsg{Update: status.Update{Kind: status.KindLatency, Latency: 12 * time.Millisecond}})
	if !strings.Contains(app.statusBar.View(), "LAT 12ms") {
		t.Fatalf("status bar = %q, want latency", app.statusBar.View())
	}
}

func TestQuitCommand(t *testing.T) {
	app := newTestApp(t, "", nil)
	_, cmd := app.Update(InputSubmitMsg{Text: "/QUIT"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("/quit should quit the program")
	}
}

func TestDisabledRainRendersBlank(t *testing.T) {
	p := NewRainPanel(matrix.Options{}, false)
	p.SetSize(10, 3)
	if _, cmd := p.Update(frameMsg(time.Now())); cmd != nil {
		t.Fatal("disabled rain should stop ticking")
	}
	if got := p.View(); got != "\n\n" {
		t.Fatalf("View() = %q, want blank lines", got)
	}
}

// drainReply runs a batched command tree until it yields a ReplyMsg.
func drainReply(t *testing.T, cmd tea.Cmd) ReplyMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("nil command")
	}
	switch msg := cmd().(type) {
	case ReplyMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if r, ok := c().(ReplyMsg); ok {
				return r
			}
		}
	}
	t.Fatal("command produced no reply")
	return ReplyMsg{}
}
