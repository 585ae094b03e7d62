package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/domain"
)

type Service struct {
	log       *slog.Logger
	repo      PaymentRepository
	publisher NotificationPublisher
}

func NewService(log *slog.Logger, repo PaymentRepository, publisher NotificationPublisher) *Service {
	return &Service{log: log, repo: repo, publisher: publisher}
}

type RecordPaymentInput struct {
	OrderRef    string
	AmountCents int64
	Method      string
	Customer    *domain.Customer
}

// RecordPayment always persists the payment row. When customer contact info
// is present it additionally emits one notification; a publish failure is
// logged and never fails the payment.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (string, error) {
	if in.OrderRef == "" || in.AmountCents <= 0 {
		return "", domain.ErrInvalidPayment
	}

	p := domain.Payment{
		ID:          uuid.NewString(),
		OrderRef:    in.OrderRef,
		AmountCents: in.AmountCents,
		Method:      in.Method,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return "", fmt.Errorf("save payment: %w", err)
	}

	if in.Customer != nil {
		n := domain.PaymentNotification{
			OrderRef:    in.OrderRef,
			AmountCents: in.AmountCents,
			Method:      in.Method,
			FirstName:   in.Customer.FirstName,
			LastName:    in.Customer.LastName,
			Email:       in.Customer.Email,
		}
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Error("notification publish failed", "order_ref", in.OrderRef, "err", err)
		}
	}

	s.log.Info("payment recorded", "payment_id", p.ID, "order_ref", p.OrderRef, "amount_cents", p.AmountCents)
	return p.ID, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	return s.repo.Get(ctx, id)
}
