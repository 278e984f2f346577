package scoreboard

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTicker(t *testing.T, store *Store) *clockwork.FakeClock {
	t.Helper()

	clock := clockwork.NewFakeClock()
	ticker := NewClockTicker(store, clock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	return clock
}

func advanceAndWait(t *testing.T, clock *clockwork.FakeClock, store *Store, wantVersion uint64) {
	t.Helper()
	clock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return store.Snapshot().Version == wantVersion
	}, time.Second, 5*time.Millisecond)
}

func TestClockTicker_DecrementsWhileRunning(t *testing.T) {
	initial := DefaultState()
	initial.ClockRunning = true
	store := NewStore(initial)
	clock := startTicker(t, store)

	advanceAndWait(t, clock, store, 1)
	assert.Equal(t, DefaultClockSeconds-1, store.Snapshot().ClockSeconds)

	advanceAndWait(t, clock, store, 2)
	assert.Equal(t, DefaultClockSeconds-2, store.Snapshot().ClockSeconds)
}

func TestClockTicker_IdleWhileStopped(t *testing.T) {
	pub := &recordingPublisher{}
	store := NewStore(DefaultState(), WithPublisher(pub))
	clock := startTicker(t, store)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
	}

	assert.Never(t, func() bool {
		return store.Snapshot().Version != 0
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.Empty(t, pub.all())
	assert.Equal(t, DefaultClockSeconds, store.Snapshot().ClockSeconds)
}

func TestClockTicker_FloorsAtZero(t *testing.T) {
	initial := DefaultState()
	initial.ClockRunning = true
	initial.ClockSeconds = 1
	store := NewStore(initial)
	clock := startTicker(t, store)

	advanceAndWait(t, clock, store, 1)

	clock.Advance(time.Second)
	assert.Never(t, func() bool {
		return store.Snapshot().Version != 1
	}, 100*time.Millisecond, 10*time.Millisecond)

	snap := store.Snapshot()
	assert.Equal(t, 0, snap.ClockSeconds)
	assert.True(t, snap.ClockRunning)
}

func TestClockTicker_ResumesAfterStart(t *testing.T) {
	store := NewStore(DefaultState())
	clock := startTicker(t, store)

	_, err := store.Dispatch(ClockAction{Action: ClockStart})
	require.NoError(t, err)

	advanceAndWait(t, clock, store, 2)
	assert.Equal(t, DefaultClockSeconds-1, store.Snapshot().ClockSeconds)

	_, err = store.Dispatch(ClockAction{Action: ClockStop})
	require.NoError(t, err)

	clock.Advance(time.Second)
	assert.Never(t, func() bool {
		return store.Snapshot().Version != 3
	}, 100*time.Millisecond, 10*time.Millisecond)
}
