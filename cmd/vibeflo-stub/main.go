// Package main runs a local in-memory VibeFlo backend for development
// and offline testing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vibeflo/vibeflo-go/internal/config"
	"github.com/vibeflo/vibeflo-go/internal/stub"
)

// Version is set at build time via ldflags.
var Version = "dev"

// applyLogLevel sets the global level from the -debug flag or the
// configured debug setting, whichever is more verbose.
func applyLogLevel(debugFlag bool, cfg *config.Config) {
	level := zerolog.InfoLevel
	if debugFlag || cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	// Parse flags
	addr := flag.String("addr", "127.0.0.1:5000", "Listen address")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	applyLogLevel(*debug, cfg)

	// Watch the config file so a debug flip takes effect without a
	// restart.
	watcher, err := config.NewWatcher(config.ConfigPath(), func(cfg *config.Config) {
		applyLogLevel(*debug, cfg)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher")
	} else if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start config watcher")
	} else {
		defer watcher.Stop() //nolint:errcheck // best-effort cleanup
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down stub server")
		cancel()
	}()

	server := &http.Server{
		Addr:              *addr,
		Handler:           stub.NewService().Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", *addr).Str("version", Version).Msg("Starting stub server")
		fmt.Fprintf(os.Stderr, "Point the client at it with: vibeflo -api-url http://%s\n", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Stub server error")
		}
	}
}
