package display

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scoreboard/go/internal/metrics"
)

// DefaultRefreshRate is frames per second.
const DefaultRefreshRate = 30

// Renderer repaints the panel at a fixed rate from whatever snapshot is
// current. It never blocks the control plane: a slow frame only delays the
// next frame.
type Renderer struct {
	source   SnapshotSource
	panel    Panel
	clock    clockwork.Clock
	interval time.Duration
	metrics  *metrics.Metrics

	lastVersion uint64
	painted     bool
}

// NewRenderer creates a renderer. A refreshRate <= 0 uses DefaultRefreshRate.
func NewRenderer(source SnapshotSource, panel Panel, clock clockwork.Clock, refreshRate int, m *metrics.Metrics) *Renderer {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	return &Renderer{
		source:   source,
		panel:    panel,
		clock:    clock,
		interval: time.Second / time.Duration(refreshRate),
		metrics:  m,
	}
}

// Interval is the time between frames.
func (r *Renderer) Interval() time.Duration {
	return r.interval
}

// Run paints a frame immediately and then once per interval until ctx is
// cancelled.
func (r *Renderer) Run(ctx context.Context) {
	log.Info().Dur("interval", r.interval).Msg("render loop started")
	defer log.Info().Msg("render loop stopped")

	canvas := r.panel.CreateFrameCanvas()
	canvas = r.renderFrame(canvas)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			canvas = r.renderFrame(canvas)
		}
	}
}

func (r *Renderer) renderFrame(canvas Canvas) Canvas {
	snap := r.source.Snapshot()
	if !r.painted || snap.Version != r.lastVersion {
		log.Debug().
			Uint64("version", snap.Version).
			Str("clock", snap.ClockText()).
			Msg("rendering new snapshot")
		r.lastVersion = snap.Version
		r.painted = true
	}

	DrawFrame(canvas, snap.State)
	next := r.panel.SwapOnVSync(canvas)
	r.metrics.FrameRendered()
	return next
}
