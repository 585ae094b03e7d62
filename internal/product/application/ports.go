package application

import (
	"context"

	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	// FindByIDs returns the matching products in ascending id order. Missing
	// ids are silently absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	// ApplyDeductions commits every deduction or none of them. A concurrent
	// batch that drained stock first surfaces as *domain.InsufficientStockError.
	ApplyDeductions(ctx context.Context, deductions []domain.Deduction) error
}
