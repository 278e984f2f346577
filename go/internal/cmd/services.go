package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scoreboard/go/internal/config"
	"github.com/mcdev12/scoreboard/go/internal/metrics"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard/display"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard/gateway"
)

type Services struct {
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Store       *scoreboard.Store
	Broadcaster *gateway.Broadcaster
	Gateway     *gateway.Service
	Ticker      *scoreboard.ClockTicker
	Panel       *display.MemoryPanel
	Renderer    *display.Renderer

	wg sync.WaitGroup
}

func setupServices(cfg *config.Config, clock clockwork.Clock) (*Services, error) {
	// Wire up the control plane:
	// Store → Broadcaster → control connections, with the ticker and the
	// renderer on either side of the store.

	initial, err := cfg.InitialState()
	if err != nil {
		return nil, fmt.Errorf("failed to build initial state: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	broadcaster := gateway.NewBroadcaster(m)
	store := scoreboard.NewStore(initial,
		scoreboard.WithPublisher(broadcaster),
		scoreboard.WithMetrics(m),
	)

	gatewayService := gateway.NewService(gateway.Config{
		ConnectionConfig: cfg.ConnectionConfig(),
		Clock:            clock,
	}, store, broadcaster)

	ticker := scoreboard.NewClockTicker(store, clock, cfg.Clock.TickInterval)

	panel := display.NewMemoryPanel(cfg.Panel.Cols, cfg.Panel.Rows)
	renderer := display.NewRenderer(store, panel, clock, cfg.Panel.RefreshRate, m)

	return &Services{
		Registry:    registry,
		Metrics:     m,
		Store:       store,
		Broadcaster: broadcaster,
		Gateway:     gatewayService,
		Ticker:      ticker,
		Panel:       panel,
		Renderer:    renderer,
	}, nil
}

// Start runs the clock ticker and the render loop until ctx is cancelled.
func (s *Services) Start(ctx context.Context) {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.Ticker.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.Renderer.Run(ctx)
	}()

	snap := s.Store.Snapshot()
	log.Info().
		Str("home", snap.HomeName).
		Str("away", snap.AwayName).
		Str("clock", snap.ClockText()).
		Msg("scoreboard started")
}

// Wait blocks until the goroutines started by Start return.
func (s *Services) Wait() {
	s.wg.Wait()
}
