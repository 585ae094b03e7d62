package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
)

type Service struct {
	log       *slog.Logger
	repo      OrderRepository
	purchases PurchaseClient
	customers CustomerClient
	payments  PaymentClient
}

func NewService(log *slog.Logger, repo OrderRepository, purchases PurchaseClient, customers CustomerClient, payments PaymentClient) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		purchases: purchases,
		customers: customers,
		payments:  payments,
	}
}

type PlaceOrderInput struct {
	CustomerID    string
	PaymentMethod string
	Lines         []domain.LineRequest
}

// PlaceOrder runs the order saga: reserve stock synchronously, persist the
// pending order, then initiate payment. Each stage commits on its own. A
// purchase rejection leaves no order row; a payment failure after stock was
// committed is recorded as a terminal FAILED order so operators can see
// reserved stock with no payment and compensate.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput, headers map[string]string, traceparent string) (domain.Order, error) {
	if len(in.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	customer, err := s.customers.Find(ctx, in.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := s.purchases.Purchase(ctx, in.Lines)
	if err != nil {
		// Typed purchase errors pass through untouched; nothing was
		// deducted and no order row exists.
		return domain.Order{}, err
	}

	o := domain.NewOrder(uuid.NewString(), "ORD-"+uuid.NewString()[:8], in.CustomerID, lines)
	if err := o.MarkPending(); err != nil {
		return domain.Order{}, err
	}

	placed, _ := json.Marshal(domain.OrderPlaced{
		OrderID:    o.ID,
		Reference:  o.Reference,
		CustomerID: o.CustomerID,
		TotalCents: o.TotalCents,
		Lines:      o.Lines,
	})
	if err := s.repo.SaveWithOutbox(ctx, o, "OrderPlaced", placed, headers, traceparent); err != nil {
		// Stock is already committed at this point. Surface loudly: the
		// order row is the operator's handle for compensation.
		s.log.Error("order persist failed after stock reservation", "reference", o.Reference, "err", err)
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	paymentID, payErr := s.payments.RecordPayment(ctx, PaymentRequest{
		OrderRef:    o.Reference,
		AmountCents: o.TotalCents,
		Method:      in.PaymentMethod,
		Customer:    &customer,
	})
	if payErr != nil {
		s.log.Error("payment initiation failed", "order_id", o.ID, "err", payErr)
		if err := o.MarkFailed(payErr.Error()); err != nil {
			return o, err
		}
		failed, _ := json.Marshal(domain.OrderFailed{OrderID: o.ID, Reference: o.Reference, Reason: payErr.Error()})
		if err := s.repo.UpdateStatusWithOutbox(ctx, o, "OrderFailed", failed, headers, traceparent); err != nil {
			s.log.Error("order failure mark failed", "order_id", o.ID, "err", err)
		}
		return o, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, payErr)
	}

	if err := o.MarkPaid(); err != nil {
		return o, err
	}
	paid, _ := json.Marshal(domain.OrderPaid{OrderID: o.ID, Reference: o.Reference, PaymentID: paymentID})
	if err := s.repo.UpdateStatusWithOutbox(ctx, o, "OrderPaid", paid, headers, traceparent); err != nil {
		s.log.Error("order paid mark failed", "order_id", o.ID, "err", err)
		return o, fmt.Errorf("persist order status: %w", err)
	}

	s.log.Info("order placed", "order_id", o.ID, "reference", o.Reference, "total_cents", o.TotalCents)
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}
