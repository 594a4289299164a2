// Package cmd implements the matrixchat command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/linanwx/matrixchat/config"
	"github.com/linanwx/matrixchat/logger"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagWebhook   string

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "matrixchat",
	Short: "Terminal chat client with a falling-glyph background",
	Long: `matrixchat forwards each message to a webhook with one HTTP GET and shows the
reply. Without a webhook it answers with simulated replies.

The webhook URL is taken from, in order: --webhook, the build-time value,
the MATRIXCHAT_WEBHOOK_URL environment variable, webhook.url in config.yaml,
and the .webhook-url file in the working directory.

Local commands: /help, /status, /clear, /about. Quit with /quit or Ctrl+C.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.matrixchat)")
	rootCmd.PersistentFlags().StringVar(&flagWebhook, "webhook", "", "Webhook URL, overrides every other source")
	rootCmd.AddGroup(&cobra.Group{ID: "chat", Title: "Chat Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tools:"})
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func loadRuntime(_ *cobra.Command, _ []string) error {
	config.SetConfigDir(flagConfigDir)

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	dir, err := config.ConfigDir()
	if err != nil {
		dir = "."
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}
