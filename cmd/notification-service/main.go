package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hverma21/order-fulfillment-platform/internal/notification/application"
	"github.com/hverma21/order-fulfillment-platform/internal/notification/config"
	"github.com/hverma21/order-fulfillment-platform/internal/notification/infrastructure/email"
	notifkafka "github.com/hverma21/order-fulfillment-platform/internal/notification/infrastructure/kafka"
	"github.com/hverma21/order-fulfillment-platform/pkg/idempotency"
	"github.com/hverma21/order-fulfillment-platform/pkg/logging"
	"github.com/hverma21/order-fulfillment-platform/pkg/shutdown"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
)

func main() {
	log := logging.New("notification-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "notification-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed", "err", err)
		os.Exit(1)
	}

	idem := idempotency.NewStore(rdb, 10*time.Minute)
	sender := email.NewSender(log, cfg.FromAddress)
	svc := application.NewService(log, sender)

	consumer := notifkafka.NewConsumer(log, cfg.KafkaBrokers, cfg.NotificationTopic, cfg.ConsumerGroup, svc, idem)

	log.Info("consuming notifications", "topic", cfg.NotificationTopic, "group", cfg.ConsumerGroup)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", "err", err)
		os.Exit(1)
	}

	log.Info("notification-service shutdown complete")
}
