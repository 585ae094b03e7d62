package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

// Order lifecycle: CREATED -> PENDING (stock reserved) -> PAID | FAILED.
// PENDING is never skipped; PAID and FAILED are terminal.
const (
	StatusCreated OrderStatus = "created"
	StatusPending OrderStatus = "pending"
	StatusPaid    OrderStatus = "paid"
	StatusFailed  OrderStatus = "failed"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusCreated: {StatusPending},
	StatusPending: {StatusPaid, StatusFailed},
}

type Order struct {
	ID          string
	Reference   string
	CustomerID  string
	Lines       []OrderLine
	TotalCents  int64
	Status      OrderStatus
	FailureNote string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine is a confirmed purchase line, priced by the product service at
// reservation time.
type OrderLine struct {
	ProductID  int64
	Name       string
	PriceCents int64
	Quantity   int
}

// LineRequest is the caller-supplied (product, quantity) pair before any
// validation.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

func NewOrder(id, reference, customerID string, lines []OrderLine) Order {
	var total int64
	for _, l := range lines {
		total += int64(l.Quantity) * l.PriceCents
	}
	now := time.Now().UTC()
	return Order{
		ID:         id,
		Reference:  reference,
		CustomerID: customerID,
		Lines:      lines,
		TotalCents: total,
		Status:     StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (o *Order) MarkPending() error { return o.transition(StatusPending) }
func (o *Order) MarkPaid() error    { return o.transition(StatusPaid) }

func (o *Order) MarkFailed(note string) error {
	if err := o.transition(StatusFailed); err != nil {
		return err
	}
	o.FailureNote = note
	return nil
}

func (o *Order) transition(to OrderStatus) error {
	for _, allowed := range transitions[o.Status] {
		if allowed == to {
			o.Status = to
			o.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid order transition %s -> %s", o.Status, to)
}
