package chat

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	simulatedMinDelay = 1000 * time.Millisecond
	simulatedJitter   = 2000 * time.Millisecond
)

var simulatedTemplates = []string{
	`Processing query: "%s"...`,
	`I understand you're asking about "%s". Currently running in simulation mode.`,
	`Query received: "%s". Webhook integration pending.`,
	`Analyzing: "%s". Full AI capabilities will be available once a webhook is configured.`,
	`Simulated response for: "%s". Ready for webhook integration.`,
}

// simulatedDelay returns a delay in [1s, 3s).
func simulatedDelay(rnd *rand.Rand) time.Duration {
	return simulatedMinDelay + time.Duration(rnd.Float64()*float64(simulatedJitter))
}

// simulatedReply picks one template uniformly at random. The message is
// embedded verbatim.
func simulatedReply(rnd *rand.Rand, message string) string {
	tmpl := simulatedTemplates[rnd.IntN(len(simulatedTemplates))]
	return fmt.Sprintf(tmpl, message)
}
