package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scoreboard/go/internal/config"
)

var CLI struct {
	Debug bool `help:"Enable debug logging."`
	Port  int  `help:"Override the HTTP port." short:"p"`

	Serve struct {
		Config string `arg:"" optional:"" name:"config" help:"YAML configuration file." type:"existingfile"`
	} `cmd:"" default:"withargs" help:"Run the scoreboard server."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("scoreboard"),
		kong.Description("LED matrix scoreboard server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	switch ctx.Command() {
	case "serve", "serve <config>":
		if err := serveCommand(CLI.Serve.Config); err != nil {
			writeError(err)
		}
	case "config":
		data, err := config.Default().YAML()
		if err != nil {
			writeError(err)
		}
		_, _ = os.Stdout.Write(data)
	}
}

func serveCommand(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	setupLogging(cfg.Log, CLI.Debug)

	services, err := setupServices(cfg, clockwork.NewRealClock())
	if err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}
	server := setupServer(cfg, services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serverErr:
		cancel()
		services.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Hijacked WebSocket connections are not closed by Shutdown.
	services.Gateway.Stop()

	cancel()
	services.Wait()

	log.Info().Msg("scoreboard shutdown complete")
	return nil
}

func setupLogging(cfg config.LogConfig, debug bool) {
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if debug {
		log.Warn().Msg("debug logging enabled")
	}
}
