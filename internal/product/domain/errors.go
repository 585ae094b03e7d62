package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrEmptyBatch      = errors.New("purchase batch is empty")
	ErrInvalidQuantity = errors.New("requested quantity must be positive")
)

// ProductsNotFoundError reports the ids a purchase batch referenced that do
// not exist. Nothing is deducted when this is returned.
type ProductsNotFoundError struct {
	Missing []int64
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("one or more products do not exist: %v", e.Missing)
}

// InsufficientStockError identifies the first product whose available
// quantity could not cover the batch. The whole batch is rejected.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
