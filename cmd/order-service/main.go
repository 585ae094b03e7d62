package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"github.com/hverma21/order-fulfillment-platform/internal/order/application"
	"github.com/hverma21/order-fulfillment-platform/internal/order/config"
	orderclient "github.com/hverma21/order-fulfillment-platform/internal/order/infrastructure/client"
	orderhttp "github.com/hverma21/order-fulfillment-platform/internal/order/infrastructure/http"
	orderpg "github.com/hverma21/order-fulfillment-platform/internal/order/infrastructure/postgres"
	"github.com/hverma21/order-fulfillment-platform/migrations"
	"github.com/hverma21/order-fulfillment-platform/pkg/logging"
	"github.com/hverma21/order-fulfillment-platform/pkg/outbox"
	"github.com/hverma21/order-fulfillment-platform/pkg/shutdown"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
)

func main() {
	log := logging.New("order-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "order-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	if err := migrations.Up(cfg.PostgresURL, "order"); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Outbox relay for order events
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	defer writer.Close()

	repo := orderpg.NewRepository(log, pool)
	store := orderpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, store, dispatch, "order-service-relay")

	purchases := orderclient.NewPurchaseClient(log, cfg.ProductURL)
	customers := orderclient.NewCustomerClient(log, cfg.CustomerURL)
	payments := orderclient.NewPaymentClient(log, cfg.PaymentURL)

	svc := application.NewService(log, repo, purchases, customers, payments)
	handler := orderhttp.NewHandler(log, svc)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

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
	log.Info("order-service shutdown complete")
}
