package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
)

// Repository keeps products in a map guarded by a single mutex. The mutex
// spans the whole check-then-deduct sequence in ApplyDeductions, which gives
// the same no-oversell guarantee the postgres implementation gets from row
// locks inside one transaction.
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]domain.Product
}

func NewRepository() *Repository {
	return &Repository{
		nextID:   1,
		products: make(map[int64]domain.Product),
	}
}

func (r *Repository) Create(ctx context.Context, p domain.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = p
	return p.ID, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) ApplyDeductions(ctx context.Context, deductions []domain.Deduction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check every line under the lock before mutating anything, so a
	// concurrent batch that got here first cannot leave this one half-applied.
	for _, d := range deductions {
		p, ok := r.products[d.ProductID]
		if !ok {
			return &domain.ProductsNotFoundError{Missing: []int64{d.ProductID}}
		}
		if p.AvailableQuantity < d.Quantity {
			return &domain.InsufficientStockError{ProductID: d.ProductID}
		}
	}
	now := time.Now().UTC()
	for _, d := range deductions {
		p := r.products[d.ProductID]
		p.AvailableQuantity -= d.Quantity
		p.UpdatedAt = now
		r.products[d.ProductID] = p
	}
	return nil
}
