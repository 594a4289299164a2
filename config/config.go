// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linanwx/matrixchat/logger"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".matrixchat"
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Webhook WebhookConfig `json:"webhook" yaml:"webhook"`
	Chat    ChatConfig    `json:"chat" yaml:"chat"`
	Matrix  MatrixConfig  `json:"matrix" yaml:"matrix"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// WebhookConfig describes the remote endpoint that answers chat messages.
type WebhookConfig struct {
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`                       // empty = simulation mode
	UserID         string `json:"userId,omitempty" yaml:"userId,omitempty"`                 // sent as the "user" query parameter
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"` // per request
	SidecarFile    string `json:"sidecarFile,omitempty" yaml:"sidecarFile,omitempty"`       // defaults to .webhook-url
	Watch          *bool  `json:"watch,omitempty" yaml:"watch,omitempty"`                   // reconfigure when the sidecar changes
}

// ChatConfig contains chat widget settings.
type ChatConfig struct {
	BotName       string `json:"botName,omitempty" yaml:"botName,omitempty"`
	CommandPrefix string `json:"commandPrefix,omitempty" yaml:"commandPrefix,omitempty"`
	Markdown      bool   `json:"markdown,omitempty" yaml:"markdown,omitempty"` // render remote replies as markdown
}

// MatrixConfig contains falling-glyph background settings.
type MatrixConfig struct {
	Enabled         *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Alphabet        string  `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	GlyphSize       int     `json:"glyphSize,omitempty" yaml:"glyphSize,omitempty"`             // cells per glyph
	FrameIntervalMs int     `json:"frameIntervalMs,omitempty" yaml:"frameIntervalMs,omitempty"` // defaults to 50 (~20 FPS)
	Fade            float64 `json:"fade,omitempty" yaml:"fade,omitempty"`                       // overlay alpha per frame
	GlowChance      float64 `json:"glowChance,omitempty" yaml:"glowChance,omitempty"`
	ResetChance     float64 `json:"resetChance,omitempty" yaml:"resetChance,omitempty"`
	HeightRatio     float64 `json:"heightRatio,omitempty" yaml:"heightRatio,omitempty"` // share of the screen used by the rain
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`     // debug, info, warn, error
	Console bool   `json:"console,omitempty" yaml:"console,omitempty"` // also log to stderr when a file is set
	File    string `json:"file,omitempty" yaml:"file,omitempty"`       // log file path
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("config file not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// RequestTimeout returns the per-request webhook timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Webhook.TimeoutSeconds) * time.Second
}

// FrameInterval returns the target interval between animation frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Matrix.FrameIntervalMs) * time.Millisecond
}

// WatchSidecar reports whether the sidecar file should be watched.
func (c *Config) WatchSidecar() bool {
	return c.Webhook.Watch == nil || *c.Webhook.Watch
}

// MatrixEnabled reports whether the falling-glyph background is drawn.
func (c *Config) MatrixEnabled() bool {
	return c.Matrix.Enabled == nil || *c.Matrix.Enabled
}

// BuildLoggerConfig converts the logging section into a logger.Config.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File:    c.Logging.File,
	}
}
