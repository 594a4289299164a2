package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/matrixchat/config"
)

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Short:   "Initialize matrixchat configuration",
	GroupID: "tools",
	Long:    `Create the matrixchat configuration directory and config file interactively.`,
	RunE:    runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	next := config.DefaultConfig()
	var (
		webhookURL = next.Webhook.URL
		botName    = next.Chat.BotName
		markdown   = next.Chat.Markdown
		rain       = true
	)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Webhook URL").
				Description("Leave empty to start in simulation mode. Each message is sent as GET ?message=...&timestamp=...&user=...").
				Validate(validateWebhookURL).
				Value(&webhookURL),
			huh.NewInput().
				Title("Agent name").
				Description("Shown next to every reply.").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("agent name is required")
					}
					return nil
				}).
				Value(&botName),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Render replies as markdown?").
				Value(&markdown),
			huh.NewConfirm().
				Title("Show the falling-glyph background?").
				Value(&rain),
		),
	).Run()
	if err != nil {
		return err
	}

	next.Webhook.URL = strings.TrimSpace(webhookURL)
	next.Chat.BotName = strings.TrimSpace(botName)
	next.Chat.Markdown = markdown
	next.Matrix.Enabled = &rain

	if err := next.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("Config written to:", configPath)
	return nil
}

func validateWebhookURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}
