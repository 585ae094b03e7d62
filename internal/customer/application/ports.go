package application

import (
	"context"

	"github.com/hverma21/order-fulfillment-platform/internal/customer/domain"
)

type CustomerRepository interface {
	Save(ctx context.Context, c domain.Customer) error
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	FindAll(ctx context.Context) ([]domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
