package display

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/scoreboard/go/internal/metrics"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

func clockText(canvas *MemoryCanvas) string {
	for _, op := range canvas.Texts() {
		if op.Font == FontClock {
			return op.Text
		}
	}
	return ""
}

func TestRenderer_PaintsLatestSnapshot(t *testing.T) {
	store := scoreboard.NewStore(scoreboard.DefaultState())
	panel := NewMemoryPanel(64, 32)
	clock := clockwork.NewFakeClock()
	m := metrics.New(prometheus.NewRegistry())

	renderer := NewRenderer(store, panel, clock, 10, m)
	assert.Equal(t, 100*time.Millisecond, renderer.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		renderer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	assert.Equal(t, uint64(1), panel.Swaps())
	assert.Equal(t, "12:00", clockText(panel.Front()))

	_, err := store.Dispatch(scoreboard.ClockAction{Action: scoreboard.ClockSet, Seconds: 90})
	require.NoError(t, err)
	_, err = store.Dispatch(scoreboard.SetColor{Team: scoreboard.TeamAway, Color: "10,20,30"})
	require.NoError(t, err)

	clock.Advance(renderer.Interval())
	require.Eventually(t, func() bool {
		return panel.Swaps() == 2
	}, time.Second, 5*time.Millisecond)

	front := panel.Front()
	assert.Equal(t, "01:30", clockText(front))
	assert.Equal(t, scoreboard.RGB{R: 10, G: 20, B: 30}, front.Pixel(40, 20))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.FramesRendered))
}

func TestRenderer_DefaultsRefreshRate(t *testing.T) {
	renderer := NewRenderer(scoreboard.NewStore(scoreboard.DefaultState()), NewMemoryPanel(64, 32), clockwork.NewFakeClock(), 0, nil)
	assert.Equal(t, time.Second/DefaultRefreshRate, renderer.Interval())
}
