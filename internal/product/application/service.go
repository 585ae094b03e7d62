package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
)

var ErrInvalidProduct = errors.New("product name is required and price must not be negative")

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if p.Name == "" || p.PriceCents < 0 || p.AvailableQuantity < 0 {
		return 0, ErrInvalidProduct
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// Purchase validates and applies a whole batch of lines against the stock,
// all-or-nothing. Duplicate product ids are allowed in the input; each id is
// fetched once and its requested quantities are deducted as one total.
//
// The store is never touched until every line has passed validation, and the
// staged deductions commit through a single atomic repository call, so no
// concurrent caller can observe a partially applied batch. Products are
// always walked in ascending id order, which keeps row lock acquisition
// deterministic across competing batches.
func (s *Service) Purchase(ctx context.Context, lines []domain.PurchaseLine) ([]domain.PurchasedLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	requested := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		requested[l.ProductID] += l.Quantity
	}

	ids := make([]int64, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	// Existence check before anything else: a single unknown id fails the
	// whole batch with no deduction.
	if len(products) != len(ids) {
		stored := make(map[int64]struct{}, len(products))
		for _, p := range products {
			stored[p.ID] = struct{}{}
		}
		missing := make([]int64, 0, len(ids)-len(products))
		for _, id := range ids {
			if _, ok := stored[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, &domain.ProductsNotFoundError{Missing: missing}
	}

	// Stock check walks products in ascending id order and stops at the
	// first violation; later lines are not inspected.
	byID := make(map[int64]domain.Product, len(products))
	deductions := make([]domain.Deduction, 0, len(products))
	for _, p := range products {
		want := requested[p.ID]
		if p.AvailableQuantity < want {
			return nil, &domain.InsufficientStockError{ProductID: p.ID}
		}
		byID[p.ID] = p
		deductions = append(deductions, domain.Deduction{ProductID: p.ID, Quantity: want})
	}

	if err := s.repo.ApplyDeductions(ctx, deductions); err != nil {
		return nil, err
	}

	// One confirmation per input line, in sorted processing order. Callers
	// that need the original input order re-key by product id.
	sorted := make([]domain.PurchaseLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	out := make([]domain.PurchasedLine, 0, len(sorted))
	for _, l := range sorted {
		p := byID[l.ProductID]
		out = append(out, domain.PurchasedLine{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   l.Quantity,
		})
	}
	return out, nil
}
