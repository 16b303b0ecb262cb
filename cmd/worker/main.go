package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/config"
	"github.com/rent-marketplace/backend/internal/db"
	"github.com/rent-marketplace/backend/internal/events"
	"github.com/rent-marketplace/backend/internal/repositories"
	"github.com/rent-marketplace/backend/internal/services"
)

// The worker is an external caller of the booking ledger: it invokes the same
// guarded transitions the API does. Two sweeps run on tickers: expiring
// unpaid bookings whose start date has passed, and releasing funded escrow
// for stays that have ended.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	propertyRepo := repositories.NewPropertyRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	withdrawRepo := repositories.NewWithdrawRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)
	bookingService := services.NewBookingService(pool, propertyRepo, bookingRepo, escrowRepo, auditRepo, withdrawRepo, walletRepo, publisher, cfg, log)

	// Metrics endpoint for the sweep counters.
	metricsSrv := newMetricsServer(cfg.WorkerPort)
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	log.Info("worker started",
		zap.Duration("stale_booking_sweep", cfg.StaleBookingSweep),
		zap.Duration("settlement_sweep", cfg.SettlementSweep),
	)

	staleTicker := time.NewTicker(cfg.StaleBookingSweep)
	settleTicker := time.NewTicker(cfg.SettlementSweep)
	defer staleTicker.Stop()
	defer settleTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-staleTicker.C:
			n, err := bookingService.ExpireStaleBookings(ctx, 100)
			if err != nil {
				log.Error("stale booking sweep failed", zap.Error(err))
			} else if n > 0 {
				log.Info("expired stale bookings", zap.Int("count", n))
			}
		case <-settleTicker.C:
			n, err := bookingService.SettleCompleted(ctx, 100)
			if err != nil {
				log.Error("settlement sweep failed", zap.Error(err))
			} else if n > 0 {
				log.Info("settled completed stays", zap.Int("count", n))
			}
		case <-sigCh:
			log.Info("shutting down worker")
			_ = metricsSrv.Close()
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func newMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
