// Package logger provides a minimal slog-based logging wrapper.
//
// Records go to an optional log file and to the console (stderr). Stdout is
// never used: it carries chat replies in plain and send mode.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Console bool   // also log to stderr when a file is configured
	File    string // relative paths are resolved against the config dir
}

// sink is the writer set the handler is built from.
type sink struct {
	cfg       Config
	file      *os.File
	intercept io.Writer // replaces the console while a full-screen UI draws
}

var (
	mu      sync.RWMutex
	state   sink
	base    = slog.New(slog.NewTextHandler(os.Stderr, nil))
	enabled = true

	// console is where console records go; tests swap it.
	console io.Writer = os.Stderr
)

// Init initializes the logger with the provided config.
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	state.closeFile()
	state.cfg = cfg
	enabled = cfg.Enabled
	if !enabled {
		base = slog.New(slog.DiscardHandler)
		return nil
	}

	var initErr error
	if cfg.File != "" {
		initErr = state.openFile(expandPath(cfg.File, configDir))
	}
	base = state.build()
	return initErr
}

// Intercept replaces the console writer, e.g. with io.Discard while a
// full-screen UI is drawing. The file writer (if any) is preserved.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	state.intercept = w
	if enabled {
		base = state.build()
	}
}

// Restore undoes Intercept.
func Restore() {
	Intercept(nil)
}

// Close closes the log file, if one was opened. Later records go to the console.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := state.closeFile()
	if enabled {
		base = state.build()
	}
	return err
}

func (s *sink) openFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("logger: open log file: %w", err)
	}
	s.file = f
	return nil
}

func (s *sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// build returns a handler over the current writers. Without a file the
// console is always used so records are never silently lost.
func (s *sink) build() *slog.Logger {
	var writers []io.Writer
	switch {
	case s.intercept != nil:
		writers = append(writers, s.intercept)
	case s.cfg.Console || s.file == nil:
		writers = append(writers, console)
	}
	if s.file != nil {
		writers = append(writers, s.file)
	}
	opts := &slog.HandlerOptions{Level: parseLevel(s.cfg.Level)}
	return slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l, on := base, enabled
	mu.RUnlock()
	if on {
		l.Log(context.Background(), level, msg, args...)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path, configDir string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) || configDir == "" {
		return path
	}
	return filepath.Join(configDir, path)
}
