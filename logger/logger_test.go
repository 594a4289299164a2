package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPathRelativeToConfigDir(t *testing.T) {
	got := expandPath("logs/matrixchat.log", "/etc/matrixchat")
	want := filepath.Join("/etc/matrixchat", "logs", "matrixchat.log")
	if got != want {
		t.Fatalf("expandPath() = %q, want %q", got, want)
	}
	if got := expandPath("/var/log/x.log", "/etc/matrixchat"); got != "/var/log/x.log" {
		t.Fatalf("absolute path should be kept, got %q", got)
	}
}

func TestInterceptAndFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Enabled: true, Level: "debug", File: "out.log"}, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = Close() }()

	var buf bytes.Buffer
	Intercept(&buf)
	Info("hello from the panel", "k", "v")
	Restore()

	if !strings.Contains(buf.String(), "hello from the panel") {
		t.Fatalf("intercepted output = %q, want log line", buf.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "k=v") {
		t.Fatalf("log file = %q, want k=v attribute", data)
	}
}

func TestConsoleTarget(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantConsole bool
	}{
		{"file only", Config{Enabled: true, File: "a.log"}, false},
		{"file and console", Config{Enabled: true, File: "b.log", Console: true}, true},
		{"no file falls back to console", Config{Enabled: true}, true},
		{"disabled", Config{Enabled: false, Console: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			saved := console
			console = &buf
			defer func() { console = saved }()

			if err := Init(tt.cfg, t.TempDir()); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			defer func() { _ = Close() }()

			Warn("console check")
			if got := strings.Contains(buf.String(), "console check"); got != tt.wantConsole {
				t.Fatalf("console received record = %v, want %v (%q)", got, tt.wantConsole, buf.String())
			}
		})
	}
}
