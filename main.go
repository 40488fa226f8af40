package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"analyticshub/api"
	"analyticshub/banner"
	"analyticshub/config"
	"analyticshub/logger"

	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long in-flight requests may finish after an interrupt
const shutdownTimeout = 2 * time.Second

func main() {
	log := logger.GetLogger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if cfg.Debug {
		log.EnableDebug()
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Fatal("Server stopped unexpectedly", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// run binds, prints the banner and serves until ctx is cancelled. A bind
// failure is returned before anything is written to stdout.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger, stdout io.Writer) error {
	srv := api.NewServer(cfg, log)

	if err := srv.Listen(); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.LandingPagePath()); err != nil {
		log.Debug("Landing page not found", map[string]interface{}{
			"path": cfg.LandingPagePath(),
		})
	}

	banner.PrintStartup(stdout, cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Serve)

	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Received shutdown signal", map[string]interface{}{
			"cause": context.Cause(gctx).Error(),
		})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	banner.PrintShutdown(stdout)
	return nil
}
