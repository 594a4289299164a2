// Package channel provides the front ends that host the chat widget.
package channel

import (
	"context"

	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/config"
	"github.com/linanwx/matrixchat/matrix"
	"github.com/linanwx/matrixchat/status"
)

// Channel is a front end driving one chat widget.
type Channel interface {
	// Name returns the channel name ("tui" or "plain").
	Name() string

	// Run blocks until the user quits or ctx is done.
	Run(ctx context.Context) error

	// SetEndpoint reconfigures the webhook URL. Safe from any goroutine.
	SetEndpoint(url string)

	// UpdateStatus delivers a status refresh. Safe from any goroutine.
	UpdateStatus(u status.Update)
}

// Options configures a channel.
type Options struct {
	Widget *chat.Widget
	Config *config.Config
}

func rainOptions(cfg *config.Config) matrix.Options {
	return matrix.Options{
		Alphabet:      cfg.Matrix.Alphabet,
		GlyphSize:     cfg.Matrix.GlyphSize,
		FrameInterval: cfg.FrameInterval(),
		Fade:          cfg.Matrix.Fade,
		GlowChance:    cfg.Matrix.GlowChance,
		ResetChance:   cfg.Matrix.ResetChance,
	}
}
