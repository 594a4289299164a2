package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/linanwx/matrixchat/chat"
	"github.com/linanwx/matrixchat/config"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Send one message and print the reply",
	GroupID: "chat",
	Long: `Send one message through the same path as the interactive chat and print the
reply. Local commands such as /status are answered locally. The exit status is
non-zero when the webhook call fails.`,
	RunE: runSend,
}

var sendMessage string

func init() {
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "", "Message text (required)")
	_ = sendCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, _ []string) error {
	endpoint, _ := config.ResolveEndpoint(cfg.Inputs(flagWebhook))
	return sendOnce(cmd.Context(), newWidget(cfg, endpoint), sendMessage, cmd.OutOrStdout())
}

// sendOnce submits text and writes every non-user message it produced to out.
// A failed webhook call is returned as an error instead of printed; cobra
// reports it as "Error: <text>".
func sendOnce(ctx context.Context, w *chat.Widget, text string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("message is empty")
	}

	before := len(w.Log())
	task, err := w.Submit(text)
	if err != nil {
		return err
	}
	w.Complete(w.Run(ctx, task))

	var failure error
	for _, m := range w.Log()[before:] {
		switch {
		case m.Origin == chat.OriginUser:
		case m.Severity == chat.SeverityError:
			failure = errors.New(strings.TrimPrefix(m.Text, "Error: "))
		default:
			fmt.Fprintln(out, m.Text)
		}
	}
	return failure
}
