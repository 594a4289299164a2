package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSidecarWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".webhook-url")
	if err := os.WriteFile(path, []byte("https://old.example/hook\n"), 0o600); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	changes := make(chan string, 4)
	w, err := NewSidecarWatcher(path, "https://old.example/hook", func(url string) { changes <- url })
	if err != nil {
		t.Fatalf("NewSidecarWatcher() error = %v", err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("  https://new.example/hook  \n"), 0o600); err != nil {
		t.Fatalf("rewrite sidecar: %v", err)
	}

	select {
	case got := <-changes:
		if got != "https://new.example/hook" {
			t.Fatalf("onChange(%q), want %q", got, "https://new.example/hook")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	// Rewriting the same URL reports nothing.
	if err := os.WriteFile(path, []byte("https://new.example/hook"), 0o600); err != nil {
		t.Fatalf("rewrite sidecar: %v", err)
	}
	select {
	case got := <-changes:
		t.Fatalf("unexpected change %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewSidecarWatcherRequiresCallback(t *testing.T) {
	if _, err := NewSidecarWatcher(filepath.Join(t.TempDir(), "x"), "", nil); err == nil {
		t.Fatal("NewSidecarWatcher(nil) should fail")
	}
}
