package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linanwx/matrixchat/logger"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var mockShapes = []string{"array", "text", "response", "message", "output", "string", "none", "plain", "html"}

var mockCmd = &cobra.Command{
	Use:     "mock-webhook",
	Short:   "Serve a local webhook that echoes messages",
	GroupID: "tools",
	Long: `Serve a local webhook for trying the client without a workflow engine.
Every GET answers "Echo: <message>" in the selected reply shape:

  array     [{"text": "..."}]
  text      {"text": "..."}       (also response, message, output)
  string    "..."
  none      {"status": "ok"}      (client shows its fallback text)
  plain     text/plain body
  html      text/html body

Use --status to answer every request with an HTTP error instead.`,
	RunE: runMock,
}

var (
	mockAddr   string
	mockShape  string
	mockStatus int
)

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8787", "Listen address")
	mockCmd.Flags().StringVar(&mockShape, "shape", "text", "Reply shape: "+strings.Join(mockShapes, ", "))
	mockCmd.Flags().IntVar(&mockStatus, "status", 0, "Answer every request with this HTTP status")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, _ []string) error {
	handler, err := newMockHandler(mockShape, mockStatus)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: mockAddr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	fmt.Fprintf(cmd.OutOrStdout(), "mock webhook listening on http://%s/ (shape=%s)\n", mockAddr, mockShape)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock webhook: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMockHandler builds the mock webhook router.
func newMockHandler(shape string, status int) (http.Handler, error) {
	if !slices.Contains(mockShapes, shape) {
		return nil, fmt.Errorf("unknown shape %q (want one of %s)", shape, strings.Join(mockShapes, ", "))
	}
	if status != 0 && (status < 100 || status > 599) {
		return nil, fmt.Errorf("invalid status %d", status)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		q := r.URL.Query()
		contentType, body, err := mockReply(shape, "Echo: "+q.Get("message"), q.Get("timestamp"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	})
	return r, nil
}

// mockReply renders reply in the given shape.
func mockReply(shape, reply, timestamp string) (contentType, body string, err error) {
	const jsonType = "application/json"

	switch shape {
	case "array":
		item, err := sjson.Set("", "text", reply)
		if err != nil {
			return "", "", err
		}
		body, err = sjson.SetRaw("[]", "-1", item)
		return jsonType, body, err

	case "text", "response", "message", "output":
		body, err = sjson.Set("", shape, reply)
		if err != nil {
			return "", "", err
		}
		if timestamp != "" {
			body, err = sjson.Set(body, "received", timestamp)
		}
		return jsonType, body, err

	case "string":
		raw, err := json.Marshal(reply)
		return jsonType, string(raw), err

	case "none":
		body, err = sjson.Set("", "status", "ok")
		return jsonType, body, err

	case "plain":
		return "text/plain; charset=utf-8", reply, nil

	case "html":
		return "text/html; charset=utf-8", "<p>" + html.EscapeString(reply) + "</p>", nil
	}
	return "", "", fmt.Errorf("unknown shape %q", shape)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("mock webhook request",
			"path", r.URL.Path,
			"message", r.URL.Query().Get("message"),
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
