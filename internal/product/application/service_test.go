package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hverma21/order-fulfillment-platform/internal/product/application"
	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
	"github.com/hverma21/order-fulfillment-platform/internal/product/infrastructure/memory"
)

func seedRepo(t *testing.T, stock map[int64]int) *memory.Repository {
	t.Helper()
	repo := memory.NewRepository()
	for id, qty := range stock {
		_, err := repo.Create(context.Background(), domain.Product{
			ID:                id,
			Name:              "product",
			PriceCents:        1000,
			AvailableQuantity: qty,
		})
		require.NoError(t, err)
	}
	return repo
}

func stockOf(t *testing.T, repo *memory.Repository, id int64) int {
	t.Helper()
	p, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.AvailableQuantity
}

func TestPurchaseDeductsStockAndConfirmsEveryLine(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10, 2: 5, 3: 7})
	svc := application.NewService(repo)

	out, err := svc.Purchase(context.Background(), []domain.PurchaseLine{
		{ProductID: 3, Quantity: 2},
		{ProductID: 1, Quantity: 4},
		{ProductID: 2, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Confirmations come back in ascending product id order and carry the
	// catalog name and price.
	require.Equal(t, int64(1), out[0].ProductID)
	require.Equal(t, 4, out[0].Quantity)
	require.Equal(t, int64(1000), out[0].PriceCents)
	require.Equal(t, int64(2), out[1].ProductID)
	require.Equal(t, int64(3), out[2].ProductID)

	require.Equal(t, 6, stockOf(t, repo, 1))
	require.Equal(t, 0, stockOf(t, repo, 2))
	require.Equal(t, 5, stockOf(t, repo, 3))
}

func TestPurchaseExactStockDrainsToZero(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 3})
	svc := application.NewService(repo)

	out, err := svc.Purchase(context.Background(), []domain.PurchaseLine{{ProductID: 1, Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 0, stockOf(t, repo, 1))
}

func TestPurchaseUnknownProductFailsWholeBatch(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10})
	svc := application.NewService(repo)

	_, err := svc.Purchase(context.Background(), []domain.PurchaseLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 1},
		{ProductID: 42, Quantity: 1},
	})

	var notFound *domain.ProductsNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, []int64{42, 99}, notFound.Missing)

	// Existence failure means nothing was deducted, including the valid line.
	require.Equal(t, 10, stockOf(t, repo, 1))
}

func TestPurchaseInsufficientStockReportsFirstViolation(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 5, 2: 0, 3: 0})
	svc := application.NewService(repo)

	_, err := svc.Purchase(context.Background(), []domain.PurchaseLine{
		{ProductID: 3, Quantity: 1},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 5},
	})

	// Products are checked in ascending id order, so product 2 is the first
	// violation even though product 3 would fail too.
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(2), insufficient.ProductID)

	// The batch that would have drained product 1 never touched it.
	require.Equal(t, 5, stockOf(t, repo, 1))
	require.Equal(t, 0, stockOf(t, repo, 2))
}

func TestPurchaseDuplicateIDsAggregateAgainstOneRow(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10})
	svc := application.NewService(repo)

	out, err := svc.Purchase(context.Background(), []domain.PurchaseLine{
		{ProductID: 1, Quantity: 4},
		{ProductID: 1, Quantity: 3},
	})
	require.NoError(t, err)

	// One confirmation per input line, one combined deduction.
	require.Len(t, out, 2)
	require.Equal(t, 4, out[0].Quantity)
	require.Equal(t, 3, out[1].Quantity)
	require.Equal(t, 3, stockOf(t, repo, 1))
}

func TestPurchaseDuplicateIDsRejectedWhenSumExceedsStock(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 5})
	svc := application.NewService(repo)

	_, err := svc.Purchase(context.Background(), []domain.PurchaseLine{
		{ProductID: 1, Quantity: 3},
		{ProductID: 1, Quantity: 3},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(1), insufficient.ProductID)
	require.Equal(t, 5, stockOf(t, repo, 1))
}

func TestPurchaseRejectsEmptyAndInvalidInput(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10})
	svc := application.NewService(repo)

	_, err := svc.Purchase(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrEmptyBatch)

	for _, qty := range []int{0, -1} {
		_, err := svc.Purchase(context.Background(), []domain.PurchaseLine{{ProductID: 1, Quantity: qty}})
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	require.Equal(t, 10, stockOf(t, repo, 1))
}

func TestPurchaseDoesNotMutateReads(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10})
	svc := application.NewService(repo)

	for i := 0; i < 3; i++ {
		p, err := svc.FindByID(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, 10, p.AvailableQuantity)
	}
}

func TestPurchaseConcurrentDisjointBatchesBothSucceed(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 10, 2: 10})
	svc := application.NewService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{1, 2} {
		wg.Add(1)
		go func(slot int, productID int64) {
			defer wg.Done()
			_, errs[slot] = svc.Purchase(context.Background(), []domain.PurchaseLine{{ProductID: productID, Quantity: 10}})
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, 0, stockOf(t, repo, 1))
	require.Equal(t, 0, stockOf(t, repo, 2))
}

func TestPurchaseLastUnitRaceAdmitsExactlyOneWinner(t *testing.T) {
	repo := seedRepo(t, map[int64]int{1: 1})
	svc := application.NewService(repo)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Purchase(context.Background(), []domain.PurchaseLine{{ProductID: 1, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 0, stockOf(t, repo, 1))
}

type failingRepo struct {
	*memory.Repository
	fetchErr error
}

func (r *failingRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.Repository.FindByIDs(ctx, ids)
}

func TestPurchaseWrapsStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	svc := application.NewService(&failingRepo{Repository: memory.NewRepository(), fetchErr: boom})

	_, err := svc.Purchase(context.Background(), []domain.PurchaseLine{{ProductID: 1, Quantity: 1}})
	require.ErrorIs(t, err, boom)
}

func TestCreateProductValidation(t *testing.T) {
	svc := application.NewService(memory.NewRepository())

	tests := []struct {
		name    string
		product domain.Product
		wantErr error
	}{
		{name: "valid", product: domain.Product{Name: "widget", PriceCents: 100, AvailableQuantity: 5}},
		{name: "missing name", product: domain.Product{PriceCents: 100}, wantErr: application.ErrInvalidProduct},
		{name: "negative price", product: domain.Product{Name: "widget", PriceCents: -1}, wantErr: application.ErrInvalidProduct},
		{name: "negative stock", product: domain.Product{Name: "widget", AvailableQuantity: -1}, wantErr: application.ErrInvalidProduct},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := svc.CreateProduct(context.Background(), tc.product)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, id)
		})
	}
}
