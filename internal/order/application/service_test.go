package application_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hverma21/order-fulfillment-platform/internal/order/application"
	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
)

type savedEvent struct {
	order     domain.Order
	eventType string
}

type stubRepo struct {
	mu      sync.Mutex
	saves   []savedEvent
	updates []savedEvent
	saveErr error
}

func (r *stubRepo) SaveWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, savedEvent{order: o, eventType: eventType})
	return nil
}

func (r *stubRepo) UpdateStatusWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, savedEvent{order: o, eventType: eventType})
	return nil
}

func (r *stubRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	return domain.Order{}, domain.ErrNotFound
}

type stubPurchases struct {
	lines []domain.OrderLine
	err   error
	calls int
}

func (p *stubPurchases) Purchase(ctx context.Context, lines []domain.LineRequest) ([]domain.OrderLine, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.lines, nil
}

type stubCustomers struct {
	err error
}

func (c *stubCustomers) Find(ctx context.Context, id string) (application.CustomerInfo, error) {
	if c.err != nil {
		return application.CustomerInfo{}, c.err
	}
	return application.CustomerInfo{ID: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil
}

type stubPayments struct {
	err  error
	last application.PaymentRequest
}

func (p *stubPayments) RecordPayment(ctx context.Context, req application.PaymentRequest) (string, error) {
	p.last = req
	if p.err != nil {
		return "", p.err
	}
	return "pay-1", nil
}

var confirmedLines = []domain.OrderLine{
	{ProductID: 1, Name: "widget", PriceCents: 250, Quantity: 2},
	{ProductID: 2, Name: "gadget", PriceCents: 100, Quantity: 1},
}

func testInput() application.PlaceOrderInput {
	return application.PlaceOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "card",
		Lines: []domain.LineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func newService(repo *stubRepo, purchases *stubPurchases, customers *stubCustomers, payments *stubPayments) *application.Service {
	return application.NewService(slog.New(slog.DiscardHandler), repo, purchases, customers, payments)
}

func TestPlaceOrderHappyPathEndsPaid(t *testing.T) {
	repo := &stubRepo{}
	payments := &stubPayments{}
	svc := newService(repo, &stubPurchases{lines: confirmedLines}, &stubCustomers{}, payments)

	o, err := svc.PlaceOrder(context.Background(), testInput(), nil, "")
	require.NoError(t, err)

	require.Equal(t, domain.StatusPaid, o.Status)
	require.Equal(t, int64(600), o.TotalCents)
	require.NotEmpty(t, o.Reference)

	require.Len(t, repo.saves, 1)
	require.Equal(t, "OrderPlaced", repo.saves[0].eventType)
	require.Equal(t, domain.StatusPending, repo.saves[0].order.Status)
	require.Len(t, repo.updates, 1)
	require.Equal(t, "OrderPaid", repo.updates[0].eventType)

	// Payment is charged the order total and carries the customer.
	require.Equal(t, int64(600), payments.last.AmountCents)
	require.Equal(t, "card", payments.last.Method)
	require.NotNil(t, payments.last.Customer)
	require.Equal(t, "ada@example.com", payments.last.Customer.Email)
}

func TestPlaceOrderDuplicateProductLinesBothPersist(t *testing.T) {
	// Two lines for the same product are valid input; the persisted order
	// keeps one line per confirmation, not one per product.
	dup := []domain.OrderLine{
		{ProductID: 1, Name: "widget", PriceCents: 250, Quantity: 2},
		{ProductID: 1, Name: "widget", PriceCents: 250, Quantity: 3},
	}
	repo := &stubRepo{}
	svc := newService(repo, &stubPurchases{lines: dup}, &stubCustomers{}, &stubPayments{})

	in := application.PlaceOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "card",
		Lines: []domain.LineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 3},
		},
	}
	o, err := svc.PlaceOrder(context.Background(), in, nil, "")
	require.NoError(t, err)
	require.Equal(t, int64(5*250), o.TotalCents)

	require.Len(t, repo.saves, 1)
	saved := repo.saves[0].order
	require.Len(t, saved.Lines, 2)
	require.Equal(t, int64(1), saved.Lines[0].ProductID)
	require.Equal(t, int64(1), saved.Lines[1].ProductID)
}

func TestPlaceOrderPurchaseRejectionLeavesNoOrder(t *testing.T) {
	purchaseErr := &domain.InsufficientStockError{ProductID: 2}
	repo := &stubRepo{}
	svc := newService(repo, &stubPurchases{err: purchaseErr}, &stubCustomers{}, &stubPayments{})

	_, err := svc.PlaceOrder(context.Background(), testInput(), nil, "")

	// The typed rejection passes through untouched and no order was saved.
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(2), insufficient.ProductID)
	require.Empty(t, repo.saves)
	require.Empty(t, repo.updates)
}

func TestPlaceOrderUnknownCustomerSkipsPurchase(t *testing.T) {
	purchases := &stubPurchases{lines: confirmedLines}
	repo := &stubRepo{}
	svc := newService(repo, purchases, &stubCustomers{err: domain.ErrCustomerNotFound}, &stubPayments{})

	_, err := svc.PlaceOrder(context.Background(), testInput(), nil, "")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	require.Zero(t, purchases.calls)
	require.Empty(t, repo.saves)
}

func TestPlaceOrderPaymentFailureRecordsFailedOrder(t *testing.T) {
	repo := &stubRepo{}
	payments := &stubPayments{err: errors.New("card declined")}
	svc := newService(repo, &stubPurchases{lines: confirmedLines}, &stubCustomers{}, payments)

	o, err := svc.PlaceOrder(context.Background(), testInput(), nil, "")
	require.ErrorIs(t, err, domain.ErrPaymentFailed)

	// Stock is already committed, so the order survives as a terminal FAILED
	// row with the payment error attached.
	require.Equal(t, domain.StatusFailed, o.Status)
	require.Contains(t, o.FailureNote, "card declined")
	require.Len(t, repo.saves, 1)
	require.Len(t, repo.updates, 1)
	require.Equal(t, "OrderFailed", repo.updates[0].eventType)
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	svc := newService(&stubRepo{}, &stubPurchases{}, &stubCustomers{}, &stubPayments{})

	_, err := svc.PlaceOrder(context.Background(), application.PlaceOrderInput{CustomerID: "cust-1"}, nil, "")
	require.ErrorIs(t, err, domain.ErrEmptyOrder)

	in := testInput()
	in.Lines[0].Quantity = 0
	_, err = svc.PlaceOrder(context.Background(), in, nil, "")
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPlaceOrderPersistFailureSurfaces(t *testing.T) {
	boom := errors.New("pg down")
	repo := &stubRepo{saveErr: boom}
	payments := &stubPayments{}
	svc := newService(repo, &stubPurchases{lines: confirmedLines}, &stubCustomers{}, payments)

	_, err := svc.PlaceOrder(context.Background(), testInput(), nil, "")
	require.ErrorIs(t, err, boom)

	// Payment is never initiated when the order row could not be written.
	require.Empty(t, payments.last.OrderRef)
}
