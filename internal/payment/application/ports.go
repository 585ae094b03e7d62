package application

import (
	"context"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/domain"
)

type PaymentRepository interface {
	Save(ctx context.Context, p domain.Payment) error
	Get(ctx context.Context, id string) (domain.Payment, error)
}

// NotificationPublisher hands a notification to the messaging substrate.
// Publishing is best-effort from the payment's point of view.
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.PaymentNotification) error
}
