package scoreboard

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultTickInterval is how often the game clock counts down
const DefaultTickInterval = time.Second

// ClockTicker counts the game clock down by issuing a Tick through the
// dispatcher once per interval. Whether a tick does anything is decided by
// Apply, under the same lock as client clock commands.
type ClockTicker struct {
	dispatcher Dispatcher
	clock      clockwork.Clock
	interval   time.Duration
}

// NewClockTicker creates a ticker. In production pass clockwork.NewRealClock();
// tests use a fake clock.
func NewClockTicker(dispatcher Dispatcher, clock clockwork.Clock, interval time.Duration) *ClockTicker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &ClockTicker{
		dispatcher: dispatcher,
		clock:      clock,
		interval:   interval,
	}
}

// Run blocks until ctx is cancelled
func (t *ClockTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("clock ticker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("clock ticker stopped")
			return
		case <-ticker.Chan():
			t.tick()
		}
	}
}

func (t *ClockTicker) tick() {
	snap, err := t.dispatcher.Dispatch(Tick{})
	if err != nil {
		if !errors.Is(err, ErrNoChange) {
			log.Error().Err(err).Msg("clock tick failed")
		}
		return
	}

	if snap.ClockSeconds == 0 {
		log.Info().Uint64("version", snap.Version).Msg("game clock reached zero")
	}
}
