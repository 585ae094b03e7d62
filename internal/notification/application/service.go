package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hverma21/order-fulfillment-platform/internal/notification/domain"
)

// Sender delivers one message to a recipient. Implementations own retries;
// the dispatcher only logs failures and never pushes them upstream.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	log    *slog.Logger
	sender Sender
}

func NewService(log *slog.Logger, sender Sender) *Service {
	return &Service{log: log, sender: sender}
}

// Dispatch turns a payment notification into a delivery. Events without a
// recipient address are dropped with a warning rather than retried forever.
func (s *Service) Dispatch(ctx context.Context, n domain.PaymentNotification) error {
	if n.Email == "" {
		s.log.Warn("notification without recipient dropped", "order_ref", n.OrderRef)
		return nil
	}

	subject := fmt.Sprintf("Payment received for order %s", n.OrderRef)
	body := fmt.Sprintf(
		"Hi %s %s,\n\nwe received your %s payment of %d.%02d for order %s.\n",
		n.FirstName, n.LastName, n.Method, n.AmountCents/100, n.AmountCents%100, n.OrderRef,
	)

	if err := s.sender.Send(ctx, n.Email, subject, body); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	s.log.Info("notification delivered", "order_ref", n.OrderRef, "to", n.Email)
	return nil
}
