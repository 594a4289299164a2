package status

import (
	"fmt"
	"time"
)

// Board is the last known value of every status field.
type Board struct {
	Now      time.Time
	Latency  time.Duration
	Endpoint string
	Pending  bool
}

// Apply folds an update into the board.
func (b *Board) Apply(u Update) {
	switch u.Kind {
	case KindClock:
		b.Now = u.Now
	case KindLatency:
		b.Latency = u.Latency
	}
}

// ClockText formats the clock as HH:MM:SS. Before the first tick it shows dashes.
func (b Board) ClockText() string {
	if b.Now.IsZero() {
		return "--:--:--"
	}
	return b.Now.Format("15:04:05")
}

// LatencyText formats the latency in whole milliseconds.
func (b Board) LatencyText() string {
	if b.Latency <= 0 {
		return "--ms"
	}
	return fmt.Sprintf("%dms", b.Latency.Milliseconds())
}

// ModeText reports whether replies come from a webhook or the simulator.
func (b Board) ModeText() string {
	if b.Endpoint == "" {
		return "SIMULATION"
	}
	return "WEBHOOK"
}

// StateText reports the submission state.
func (b Board) StateText() string {
	if b.Pending {
		return "PROCESSING"
	}
	return "READY"
}
