package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/domain"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
)

// NotificationPublisher writes payment notifications to Kafka. The producer
// never blocks the payment flow on broker delivery semantics beyond the
// write itself; callers treat errors as best-effort.
type NotificationPublisher struct {
	log    *slog.Logger
	writer *kafka.Writer
	topic  string
}

func NewNotificationPublisher(log *slog.Logger, brokers []string, topic string) *NotificationPublisher {
	return &NotificationPublisher{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		topic: topic,
	}
}

func (p *NotificationPublisher) Publish(ctx context.Context, n domain.PaymentNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	headers := tracing.InjectKafkaHeaders(ctx, []kafka.Header{
		{Key: "event_type", Value: []byte("PaymentNotification")},
	})

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topic,
		Key:     []byte(n.OrderRef),
		Value:   payload,
		Headers: headers,
	})
}

func (p *NotificationPublisher) Close() error {
	return p.writer.Close()
}
