package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestClient(t *testing.T) (*Client, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 30, 0, 123_000_000, time.UTC))
	return NewClient(Config{UserID: "terminal_user", Fallback: "fallback", Clock: clock}), clock
}

func TestCallSendsQueryAndAcceptHeader(t *testing.T) {
	var gotQuery map[string]string
	var gotAccept, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAccept = r.Header.Get("Accept")
		q := r.URL.Query()
		gotQuery = map[string]string{
			"message":   q.Get("message"),
			"timestamp": q.Get("timestamp"),
			"user":      q.Get("user"),
			"token":     q.Get("token"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"text":"pong"}]`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	got, err := client.Call(context.Background(), server.URL+"/hook?token=abc", "ping & more")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "pong" {
		t.Fatalf("Call() = %q, want %q", got, "pong")
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("method = %s, want GET", gotMethod)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	want := map[string]string{
		"message":   "ping & more",
		"timestamp": "2026-03-01T09:30:00.123Z",
		"user":      "terminal_user",
		"token":     "abc",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestCallNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	_, err := client.Call(context.Background(), server.URL, "hello")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Call() error = %v, want *StatusError", err)
	}
	if statusErr.Code != 500 || err.Error() != "HTTP error! status: 500" {
		t.Fatalf("status error = %q (code %d)", err.Error(), statusErr.Code)
	}
}

func TestCallPlainTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("  plain reply \n"))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	got, err := client.Call(context.Background(), server.URL, "hello")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "plain reply" {
		t.Fatalf("Call() = %q, want %q", got, "plain reply")
	}
}

func TestCallMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	_, err := client.Call(context.Background(), server.URL, "hello")
	if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Fatalf("Call() error = %v, want invalid JSON error", err)
	}
}

func TestCallUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	client, _ := newTestClient(t)
	if _, err := client.Call(context.Background(), base, "hello"); err == nil {
		t.Fatal("Call() to a closed server should fail")
	}
}

func TestBuildURLRejectsUnsupportedScheme(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.BuildURL("ftp://example.com/hook", "x"); err == nil {
		t.Fatal("BuildURL() should reject ftp scheme")
	}
}

func TestCallTextBodies(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		keepMarkup  bool
		want        string
	}{
		{"plain keeps angle brackets", "text/plain; charset=utf-8", "Use Vec<T> when x<y holds", false, "Use Vec<T> when x<y holds"},
		{"plain keeps entities", "text/plain", "fish &amp; chips", false, "fish &amp; chips"},
		{"markdown keeps code spans", "text/markdown", "call `a<b>` first", false, "call `a<b>` first"},
		{"html reduced to text", "text/html; charset=utf-8", "<p>first</p><p>second &amp; more</p>", false, "first\nsecond & more"},
		{"html line breaks", "text/html", "line one<br>line two", false, "line one\nline two"},
		{"html scripts dropped", "text/html", "<script>alert(1)</script>safe", false, "safe"},
		{"html kept for markdown rendering", "text/html", "<b>bold</b>", true, "<b>bold</b>"},
		{"html without text uses fallback", "text/html", "<br>", false, "fallback"},
		{"empty plain body uses fallback", "text/plain", "  \n", false, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{
				UserID:     "terminal_user",
				Fallback:   "fallback",
				KeepMarkup: tt.keepMarkup,
				Clock:      clockwork.NewFakeClock(),
			})
			got, err := client.Call(context.Background(), server.URL, "hello")
			if err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Call() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONReplyKeepsMarkup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":"if a<b && c>d"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	got, err := client.Call(context.Background(), server.URL, "hello")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "if a<b && c>d" {
		t.Fatalf("Call() = %q, want the JSON text verbatim", got)
	}
}
