package status

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRandomLatencyRange(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))
	seen := map[time.Duration]bool{}
	for i := 0; i < 2000; i++ {
		got := RandomLatency(rnd)
		if got < 8*time.Millisecond || got > 27*time.Millisecond {
			t.Fatalf("RandomLatency() = %v, want within [8ms, 27ms]", got)
		}
		seen[got] = true
	}
	if len(seen) != 20 {
		t.Fatalf("saw %d distinct latencies, want 20", len(seen))
	}
}

func TestBoardText(t *testing.T) {
	var b Board
	if got := b.ClockText(); got != "--:--:--" {
		t.Fatalf("ClockText() = %q, want dashes", got)
	}
	if got := b.LatencyText(); got != "--ms" {
		t.Fatalf("LatencyText() = %q, want --ms", got)
	}
	if got := b.ModeText(); got != "SIMULATION" {
		t.Fatalf("ModeText() = %q, want SIMULATION", got)
	}

	b.Apply(Update{Kind: KindClock, Now: time.Date(2026, 3, 4, 9, 8, 7, 0, time.UTC)})
	b.Apply(Update{Kind: KindLatency, Latency: 14 * time.Millisecond})
	b.Endpoint = "https://hook.example"
	b.Pending = true

	tests := []struct {
		name, got, want string
	}{
		{"clock", b.ClockText(), "09:08:07"},
		{"latency", b.LatencyText(), "14ms"},
		{"mode", b.ModeText(), "WEBHOOK"},
		{"state", b.StateText(), "PROCESSING"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestApplyLatencyKeepsClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)
	b := Board{Now: now}
	b.Apply(Update{Kind: KindLatency, Now: now.Add(time.Hour), Latency: 9 * time.Millisecond})
	if !b.Now.Equal(now) {
		t.Fatalf("latency update moved the clock to %v", b.Now)
	}
}

func TestTickerDeliversBothKinds(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[Kind]int{}
		done = make(chan struct{})
		once sync.Once
	)
	ticker, err := NewTicker(Options{
		ClockInterval:   10 * time.Millisecond,
		LatencyInterval: 20 * time.Millisecond,
		Clock:           clockwork.NewRealClock(),
		Rand:            rand.New(rand.NewPCG(1, 2)),
	}, func(u Update) {
		mu.Lock()
		defer mu.Unlock()
		seen[u.Kind]++
		if u.Kind == KindLatency && (u.Latency < 8*time.Millisecond || u.Latency > 27*time.Millisecond) {
			t.Errorf("latency update out of range: %v", u.Latency)
		}
		if seen[KindClock] >= 2 && seen[KindLatency] >= 1 {
			once.Do(func() { close(done) })
		}
	})
	if err != nil {
		t.Fatalf("NewTicker() error = %v", err)
	}
	ticker.Start()
	defer func() {
		if err := ticker.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		mu.Lock()
		defer mu.Unlock()
		t.Fatalf("updates not delivered in time: %v", seen)
	}
}

func TestNewTickerRequiresCallback(t *testing.T) {
	if _, err := NewTicker(Options{}, nil); err == nil {
		t.Fatal("NewTicker(nil) should fail")
	}
}
