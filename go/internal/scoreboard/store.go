package scoreboard

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"

	"github.com/mcdev12/scoreboard/go/internal/metrics"
)

// Publisher receives every snapshot produced by an accepted command. Publish
// is called while the store holds its mutation lock, so it must not block
// and must not call back into the store.
type Publisher interface {
	Publish(snapshot Snapshot)
}

// Dispatcher is the single mutation entry point
type Dispatcher interface {
	Dispatch(cmd Command) (Snapshot, error)
}

// Store owns the scoreboard state. All writers go through Dispatch, which
// serializes them; readers use Snapshot, which never takes the lock.
type Store struct {
	mu        deadlock.Mutex
	current   atomic.Pointer[Snapshot]
	publisher Publisher
	metrics   *metrics.Metrics
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithPublisher sets where accepted snapshots go.
func WithPublisher(p Publisher) StoreOption {
	return func(s *Store) { s.publisher = p }
}

// WithMetrics records command outcomes.
func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a store holding initial at version 0.
func NewStore(initial State, opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{State: initial})
	return s
}

// Snapshot returns the latest published snapshot without locking.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Dispatch applies cmd. On success the new snapshot is stored and handed to
// the publisher before Dispatch returns. On error nothing is published and
// the current snapshot is returned alongside the error.
func (s *Store) Dispatch(cmd Command) (Snapshot, error) {
	if cmd == nil {
		return s.Snapshot(), fmt.Errorf("%w: nil", ErrUnknownCommand)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	next, err := Apply(prev.State, cmd)
	if err != nil {
		if !errors.Is(err, ErrNoChange) {
			s.metrics.CommandRejected(cmd.Kind())
			log.Debug().Err(err).Str("kind", cmd.Kind()).Msg("command rejected")
		}
		return *prev, err
	}

	snap := &Snapshot{State: next, Version: prev.Version + 1}
	s.current.Store(snap)
	s.metrics.CommandApplied(cmd.Kind(), snap.Version)

	if s.publisher != nil {
		s.publisher.Publish(*snap)
	}

	log.Debug().
		Str("kind", cmd.Kind()).
		Uint64("version", snap.Version).
		Msg("command applied")

	return *snap, nil
}

// WithSnapshot runs fn with the current snapshot while holding the mutation
// lock. No Dispatch can publish between fn observing the snapshot and fn
// returning, which lets a new subscriber register and receive the current
// state without missing or reordering updates. fn must not call Dispatch.
func (s *Store) WithSnapshot(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(*s.current.Load())
}
