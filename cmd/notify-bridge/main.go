package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/config"
	"github.com/rent-marketplace/backend/internal/db"
	"github.com/rent-marketplace/backend/internal/events"
	"github.com/rent-marketplace/backend/internal/services"
)

// Notify bridge: subscribes to booking lifecycle events on Redis and
// forwards them to an external webhook consumer (indexer, UI backend,
// notification service).

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WebhookURL == "" {
		log.Fatal("WEBHOOK_URL is required")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	webhook := services.NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout, log)

	log.Info("notify-bridge started", zap.String("webhook", cfg.WebhookURL))

	_ = subscriber.Subscribe(ctx, events.ChannelBooking, func(event events.Event) {
		if err := webhook.Deliver(ctx, event); err != nil {
			log.Warn("failed to deliver event", zap.String("type", event.Type), zap.Error(err))
			return
		}
		log.Info("event delivered", zap.String("type", event.Type))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
