package chat

import "strings"

// command is a local terminal command. Its reply is shown as a system message.
type command struct {
	describe func(w *Widget) string
	// clearView empties the visible transcript before the reply is produced.
	clearView bool
}

var commands = map[string]command{
	"help": {
		describe: func(*Widget) string {
			return "Available commands: " + strings.Join(commandNames(), ", ")
		},
	},
	"status": {
		describe: func(w *Widget) string {
			state := "PENDING"
			if w.endpoint != "" {
				state = "CONNECTED"
			}
			return "System Status: ONLINE | Neural Network: ACTIVE | Webhook: " + state
		},
	},
	"clear": {
		clearView: true,
	},
	"about": {
		describe: func(w *Widget) string {
			return w.botName + " Chat Terminal v2.0 - falling-glyph interface for AI interaction"
		},
	},
}

// lookupCommand returns the command for raw input, which must already be trimmed.
// The prefix is matched exactly; the name is case-insensitive.
func lookupCommand(prefix, input string) (command, bool) {
	if prefix == "" || !strings.HasPrefix(input, prefix) {
		return command{}, false
	}
	name := strings.ToLower(strings.TrimPrefix(input, prefix))
	cmd, ok := commands[name]
	return cmd, ok
}

// commandNames lists the local commands in help order.
func commandNames() []string {
	return []string{"help", "status", "clear", "about"}
}
