package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/linanwx/matrixchat/logger"
)

const (
	// EnvWebhookURL overrides the webhook URL from the environment.
	EnvWebhookURL = "MATRIXCHAT_WEBHOOK_URL"

	// DemoModeSentinel disables a build-time URL explicitly.
	DemoModeSentinel = "DEMO_MODE"

	webhookPlaceholder = "__WEBHOOK_URL_PLACEHOLDER__"
)

// BuildWebhookURL is injected at build time:
//
//	go build -ldflags "-X github.com/linanwx/matrixchat/config.BuildWebhookURL=https://..."
var BuildWebhookURL = webhookPlaceholder

// EndpointSource names where the active webhook URL came from.
type EndpointSource string

const (
	SourceFlag    EndpointSource = "flag"
	SourceBuild   EndpointSource = "build"
	SourceEnv     EndpointSource = "env"
	SourceConfig  EndpointSource = "config"
	SourceSidecar EndpointSource = "sidecar"
	SourceNone    EndpointSource = "none"
)

// EndpointInputs holds every candidate for the webhook URL. Empty fields are skipped.
type EndpointInputs struct {
	Flag        string
	Build       string
	Env         string
	Config      string
	SidecarPath string
}

// Inputs collects the endpoint candidates for this process.
func (c *Config) Inputs(flagURL string) EndpointInputs {
	return EndpointInputs{
		Flag:        flagURL,
		Build:       BuildWebhookURL,
		Env:         os.Getenv(EnvWebhookURL),
		Config:      c.Webhook.URL,
		SidecarPath: c.SidecarPath(),
	}
}

// SidecarPath returns the absolute path of the sidecar URL file.
func (c *Config) SidecarPath() string {
	p := strings.TrimSpace(c.Webhook.SidecarFile)
	if p == "" {
		p = defaultSidecarFile
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// ResolveEndpoint returns the first non-empty URL in priority order:
// flag, build-time value, environment, config file, sidecar file.
// An empty result means simulation mode.
func ResolveEndpoint(in EndpointInputs) (string, EndpointSource) {
	if u := strings.TrimSpace(in.Flag); u != "" {
		return u, SourceFlag
	}
	if u := strings.TrimSpace(in.Build); usableBuildURL(u) {
		logger.Info("webhook URL loaded from build configuration")
		return u, SourceBuild
	}
	if u := strings.TrimSpace(in.Env); u != "" {
		return u, SourceEnv
	}
	if u := strings.TrimSpace(in.Config); u != "" {
		return u, SourceConfig
	}
	if u, err := ReadSidecar(in.SidecarPath); err != nil {
		logger.Warn("read webhook sidecar failed", "path", in.SidecarPath, "err", err)
	} else if u != "" {
		logger.Info("webhook URL loaded from local file", "path", in.SidecarPath)
		return u, SourceSidecar
	}
	logger.Info("no webhook URL configured, running in simulation mode")
	return "", SourceNone
}

// ReadSidecar returns the trimmed contents of the sidecar file.
// A missing file is not an error.
func ReadSidecar(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func usableBuildURL(u string) bool {
	return u != "" && u != DemoModeSentinel && u != webhookPlaceholder
}
