package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hverma21/order-fulfillment-platform/internal/customer/application"
	"github.com/hverma21/order-fulfillment-platform/internal/customer/config"
	customerhttp "github.com/hverma21/order-fulfillment-platform/internal/customer/infrastructure/http"
	customermongo "github.com/hverma21/order-fulfillment-platform/internal/customer/infrastructure/mongo"
	"github.com/hverma21/order-fulfillment-platform/pkg/logging"
	"github.com/hverma21/order-fulfillment-platform/pkg/shutdown"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
)

func main() {
	log := logging.New("customer-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "customer-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(connectCtx, nil); err != nil {
		log.Error("mongo ping failed", "err", err)
		os.Exit(1)
	}

	repo := customermongo.NewRepository(client, cfg.MongoDB)
	svc := application.NewService(repo)
	handler := customerhttp.NewHandler(log, svc)

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
	log.Info("customer-service shutdown complete")
}
