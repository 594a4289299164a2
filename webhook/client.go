// Package webhook calls the remote chat endpoint and normalizes its replies.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/linanwx/matrixchat/logger"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20

	// timestampLayout matches JavaScript's Date.toISOString.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Config configures a Client.
type Config struct {
	UserID   string
	Fallback string
	// KeepMarkup passes text/html bodies through untouched, e.g. when the
	// front end renders replies as markdown.
	KeepMarkup bool
	Timeout    time.Duration
	HTTPClient *http.Client
	Clock      clockwork.Clock
}

// Client issues one GET per chat message.
type Client struct {
	userID     string
	fallback   string
	keepMarkup bool
	timeout    time.Duration
	http       *http.Client
	clock      clockwork.Clock
}

// NewClient creates a webhook client.
func NewClient(cfg Config) *Client {
	c := &Client{
		userID:     strings.TrimSpace(cfg.UserID),
		fallback:   cfg.Fallback,
		keepMarkup: cfg.KeepMarkup,
		timeout:    cfg.Timeout,
		http:       cfg.HTTPClient,
		clock:      cfg.Clock,
	}
	if c.fallback == "" {
		c.fallback = DefaultFallback
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	return c
}

// BuildURL appends message, timestamp and user query parameters to base.
// Existing query parameters are kept.
func (c *Client) BuildURL(base, message string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported webhook url scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Add("message", message)
	q.Add("timestamp", c.clock.Now().UTC().Format(timestampLayout))
	q.Add("user", c.userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Call sends message to the endpoint at base and returns the normalized reply text.
func (c *Client) Call(ctx context.Context, base, message string) (string, error) {
	target, err := c.BuildURL(base, message)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := c.clock.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	logger.Debug("webhook responded", "status", resp.StatusCode, "elapsed", c.clock.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return c.decode(resp.Header.Get("Content-Type"), body)
}

// decode turns a response body into display text. JSON is normalized; other
// text/* bodies are used verbatim, except text/html, which is reduced to its
// text content. A body that yields no text shows the fallback.
func (c *Client) decode(contentType string, body []byte) (string, error) {
	if json.Valid(body) {
		return Normalize(body, c.fallback), nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "text/") {
		return "", fmt.Errorf("decode response: invalid JSON body (%d bytes)", len(body))
	}

	text := strings.TrimSpace(string(body))
	if mediaType == "text/html" && !c.keepMarkup {
		text = htmlText(text)
	}
	if text == "" {
		return c.fallback, nil
	}
	return text, nil
}
