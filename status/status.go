// Package status drives the decorative status line: a wall clock refreshed
// every second and a fake latency figure refreshed every few seconds.
package status

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/linanwx/matrixchat/logger"
)

const (
	DefaultClockInterval   = time.Second
	DefaultLatencyInterval = 5 * time.Second

	minLatencyMs = 8
	maxLatencyMs = 27
)

// Kind identifies which field an Update refreshes.
type Kind int

const (
	KindClock Kind = iota
	KindLatency
)

// Update is delivered to the subscriber on every tick.
type Update struct {
	Kind    Kind
	Now     time.Time
	Latency time.Duration
}

// Options configures a Ticker. Zero values fall back to defaults.
type Options struct {
	ClockInterval   time.Duration
	LatencyInterval time.Duration
	Clock           clockwork.Clock
	Rand            *rand.Rand
}

// Ticker owns the scheduler that produces status updates.
type Ticker struct {
	scheduler gocron.Scheduler
	clock     clockwork.Clock

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTicker registers the clock and latency jobs. Nothing runs until Start.
func NewTicker(opts Options, notify func(Update)) (*Ticker, error) {
	if notify == nil {
		return nil, fmt.Errorf("status: notify callback is required")
	}
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = DefaultClockInterval
	}
	if opts.LatencyInterval <= 0 {
		opts.LatencyInterval = DefaultLatencyInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s, err := gocron.NewScheduler(gocron.WithClock(opts.Clock))
	if err != nil {
		return nil, fmt.Errorf("status: create scheduler: %w", err)
	}
	t := &Ticker{scheduler: s, clock: opts.Clock, rnd: opts.Rand}

	jobs := []struct {
		name     string
		interval time.Duration
		run      func()
	}{
		{"clock", opts.ClockInterval, func() {
			notify(Update{Kind: KindClock, Now: t.clock.Now()})
		}},
		{"latency", opts.LatencyInterval, func() {
			notify(Update{Kind: KindLatency, Now: t.clock.Now(), Latency: t.nextLatency()})
		}},
	}
	for _, j := range jobs {
		_, err := s.NewJob(
			gocron.DurationJob(j.interval),
			gocron.NewTask(j.run),
			gocron.WithName(j.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("status: schedule %s job: %w", j.name, err)
		}
	}
	return t, nil
}

// Start begins delivering updates.
func (t *Ticker) Start() {
	logger.Debug("status ticker started")
	t.scheduler.Start()
}

// Stop halts the scheduler and waits for running jobs.
func (t *Ticker) Stop() error {
	if err := t.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("status: shutdown scheduler: %w", err)
	}
	return nil
}

func (t *Ticker) nextLatency() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return RandomLatency(t.rnd)
}

// RandomLatency returns a latency in [8ms, 27ms].
func RandomLatency(rnd *rand.Rand) time.Duration {
	ms := minLatencyMs + rnd.IntN(maxLatencyMs-minLatencyMs+1)
	return time.Duration(ms) * time.Millisecond
}
