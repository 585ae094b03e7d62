package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrInvalidPayment = errors.New("order reference is required and amount must be positive")
)

type Payment struct {
	ID          string
	OrderRef    string
	AmountCents int64
	Method      string
	CreatedAt   time.Time
}

// Customer is the optional contact attached to a payment request. Its
// presence is what decides whether a notification goes out.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}
