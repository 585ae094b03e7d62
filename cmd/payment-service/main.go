package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/application"
	"github.com/hverma21/order-fulfillment-platform/internal/payment/config"
	paymenthttp "github.com/hverma21/order-fulfillment-platform/internal/payment/infrastructure/http"
	paymentkafka "github.com/hverma21/order-fulfillment-platform/internal/payment/infrastructure/kafka"
	paymentpg "github.com/hverma21/order-fulfillment-platform/internal/payment/infrastructure/postgres"
	"github.com/hverma21/order-fulfillment-platform/migrations"
	"github.com/hverma21/order-fulfillment-platform/pkg/logging"
	"github.com/hverma21/order-fulfillment-platform/pkg/shutdown"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
)

func main() {
	log := logging.New("payment-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "payment-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	if err := migrations.Up(cfg.PostgresURL, "payment"); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	publisher := paymentkafka.NewNotificationPublisher(log, cfg.KafkaBrokers, cfg.NotificationTopic)
	defer publisher.Close()

	repo := paymentpg.NewRepository(log, pool)
	svc := application.NewService(log, repo, publisher)
	handler := paymenthttp.NewHandler(log, svc)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("payment-service shutdown complete")
}
