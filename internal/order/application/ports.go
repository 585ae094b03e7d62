package application

import (
	"context"

	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
)

type OrderRepository interface {
	SaveWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error
	UpdateStatusWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error
	Get(ctx context.Context, id string) (domain.Order, error)
}

// PurchaseClient is the synchronous call into the product service that
// validates and reserves stock for the whole batch, all-or-nothing.
type PurchaseClient interface {
	Purchase(ctx context.Context, lines []domain.LineRequest) ([]domain.OrderLine, error)
}

type CustomerInfo struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

type CustomerClient interface {
	Find(ctx context.Context, id string) (CustomerInfo, error)
}

type PaymentRequest struct {
	OrderRef    string
	AmountCents int64
	Method      string
	Customer    *CustomerInfo
}

type PaymentClient interface {
	RecordPayment(ctx context.Context, req PaymentRequest) (string, error)
}
