package integration

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/hverma21/order-fulfillment-platform/internal/product/application"
	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
	productpg "github.com/hverma21/order-fulfillment-platform/internal/product/infrastructure/postgres"
	"github.com/hverma21/order-fulfillment-platform/migrations"
)

// Spins up a real postgres and runs the purchase path against the guarded
// UPDATE implementation. Gated behind INTEGRATION because it needs docker.
func TestPurchaseAgainstPostgres(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	ctx := context.Background()
	env, err := Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(ctx) })

	require.NoError(t, migrations.Up(env.PGURL, "product"))

	pool, err := pgxpool.New(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := productpg.NewRepository(slog.New(slog.DiscardHandler), pool)
	svc := application.NewService(repo)

	id, err := svc.CreateProduct(ctx, domain.Product{Name: "widget", PriceCents: 250, AvailableQuantity: 10})
	require.NoError(t, err)

	t.Run("deducts stock", func(t *testing.T) {
		out, err := svc.Purchase(ctx, []domain.PurchaseLine{{ProductID: id, Quantity: 4}})
		require.NoError(t, err)
		require.Len(t, out, 1)

		p, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 6, p.AvailableQuantity)
	})

	t.Run("rejects oversell without mutating", func(t *testing.T) {
		_, err := svc.Purchase(ctx, []domain.PurchaseLine{{ProductID: id, Quantity: 7}})
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)

		p, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 6, p.AvailableQuantity)
	})

	t.Run("concurrent batches never oversell", func(t *testing.T) {
		contested, err := svc.CreateProduct(ctx, domain.Product{Name: "scarce", PriceCents: 100, AvailableQuantity: 1})
		require.NoError(t, err)

		const callers = 6
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				_, errs[slot] = svc.Purchase(ctx, []domain.PurchaseLine{{ProductID: contested, Quantity: 1}})
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			}
		}
		require.Equal(t, 1, wins)

		p, err := svc.FindByID(ctx, contested)
		require.NoError(t, err)
		require.Equal(t, 0, p.AvailableQuantity)
	})
}
