package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/linanwx/matrixchat/channel"
	"github.com/linanwx/matrixchat/channel/watch"
	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/config"
	"github.com/linanwx/matrixchat/logger"
	"github.com/linanwx/matrixchat/status"
	"github.com/linanwx/matrixchat/webhook"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var flagPlain bool

func init() {
	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "Use the line-oriented interface even on a terminal")
}

func runChat(_ *cobra.Command, _ []string) error {
	endpoint, source := config.ResolveEndpoint(cfg.Inputs(flagWebhook))
	logger.Info("webhook endpoint resolved", "source", source, "simulation", endpoint == "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ch := channel.NewCLIChannel(channel.Options{
		Widget: newWidget(cfg, endpoint),
		Config: cfg,
	}, flagPlain)

	ticker, err := status.NewTicker(status.Options{}, ch.UpdateStatus)
	if err != nil {
		return err
	}
	ticker.Start()
	defer func() {
		if err := ticker.Stop(); err != nil {
			logger.Warn("status ticker shutdown failed", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ch.Run(gctx)
	})

	if cfg.WatchSidecar() {
		w, err := watch.NewSidecarWatcher(cfg.SidecarPath(), endpoint, ch.SetEndpoint)
		if err != nil {
			logger.Warn("sidecar watch disabled", "err", err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// newWidget builds a chat widget backed by the webhook client.
func newWidget(cfg *config.Config, endpoint string) *chat.Widget {
	client := webhook.NewClient(webhook.Config{
		UserID:     cfg.Webhook.UserID,
		Fallback:   cfg.Chat.BotName + " processed your request successfully.",
		KeepMarkup: cfg.Chat.Markdown,
		Timeout:    cfg.RequestTimeout(),
	})
	return chat.New(chat.Options{
		BotName:       cfg.Chat.BotName,
		CommandPrefix: cfg.Chat.CommandPrefix,
		Endpoint:      endpoint,
		Caller:        client,
	})
}
