package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tanker-queue/cmd/gateservice/server"
	"tanker-queue/pkg/config"
	"tanker-queue/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config/config.yaml", "Path to yaml config")
	flag.Parse()

	log := logger.NewLogger("gate-service")
	log.Info("startup", "service_started", "Gate Service starting")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error("startup", "config_load_failed", "Failed to load configuration", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	srv := server.NewServer(cfg.Server.Port, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown", "graceful_shutdown", "Shutting down gate service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown", "service_failed", "Gate service exited with error", err)
		os.Exit(1)
	}
	log.Info("shutdown", "service_stopped", "Gate service exiting")
}
