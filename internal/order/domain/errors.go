package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrEmptyOrder       = errors.New("order must contain at least one line")
	ErrInvalidQuantity  = errors.New("requested quantity must be positive")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPaymentFailed    = errors.New("payment initiation failed")
)

// ProductsNotFoundError mirrors the product service rejection so callers of
// PlaceOrder see the same typed error the purchase engine produced.
type ProductsNotFoundError struct {
	Missing []int64
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("one or more products do not exist: %v", e.Missing)
}

type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
