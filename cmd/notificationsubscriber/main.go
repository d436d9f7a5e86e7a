package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tanker-queue/internal/notificationsubscriber/subscriber"
	"tanker-queue/pkg/config"
	"tanker-queue/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to yaml config")
	flag.Parse()

	log := logger.NewLogger("notification-subscriber")
	log.Info("startup", "service_started", "Notification Subscriber starting")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error("startup", "config_load_failed", "Failed to load configuration", err)
		os.Exit(1)
	}

	notifSubscriber := subscriber.NewNotificationSubscriber(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- notifSubscriber.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutdown", "graceful_shutdown", "Shutting down subscriber...")
	case err := <-errCh:
		if err != nil {
			log.Error("startup", "subscribe_failed", "Subscriber stopped with error", err)
			os.Exit(1)
		}
	}

	cancel()
	notifSubscriber.Stop()
	log.Info("shutdown", "service_stopped", "Subscriber exiting")
}
