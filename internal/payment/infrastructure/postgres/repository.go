package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Save(ctx context.Context, p domain.Payment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payments (id, order_ref, amount_cents, method, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.OrderRef, p.AmountCents, p.Method, p.CreatedAt)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_ref, amount_cents, method, created_at FROM payments WHERE id=$1`, id).
		Scan(&p.ID, &p.OrderRef, &p.AmountCents, &p.Method, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}
