package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, category_id, price_cents, available_quantity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now(),now())
		RETURNING id`,
		p.Name, p.Description, p.CategoryID, p.PriceCents, p.AvailableQuantity).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, category_id, price_cents, available_quantity, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.PriceCents, &p.AvailableQuantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, category_id, price_cents, available_quantity, created_at, updated_at
		FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, category_id, price_cents, available_quantity, created_at, updated_at
		FROM products WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ApplyDeductions runs every decrement inside one transaction. Each UPDATE is
// guarded by available_quantity >= wanted, so a row changed by a concurrent
// batch after validation simply matches zero rows here and the whole
// transaction rolls back. Deductions arrive in ascending id order, keeping
// row lock acquisition deterministic between competing batches.
func (r *Repository) ApplyDeductions(ctx context.Context, deductions []domain.Deduction) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, d := range deductions {
		ct, err := tx.Exec(ctx, `
			UPDATE products
			SET available_quantity = available_quantity - $2, updated_at = now()
			WHERE id = $1 AND available_quantity >= $2`,
			d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			r.log.Warn("stock deduction lost race", "product_id", d.ProductID, "quantity", d.Quantity)
			return &domain.InsufficientStockError{ProductID: d.ProductID}
		}
	}
	return tx.Commit(ctx)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.PriceCents, &p.AvailableQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
