package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/microshop/microshop/internal/order/application"
	"github.com/microshop/microshop/internal/order/domain"
)

// Repository stores orders as single rows. The line-item snapshots are
// serialized into a JSONB column and are opaque to every other table.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// AppendWithOutbox persists the order and its OrderCreated event in one
// transaction. The row's id and creation time are assigned here; orders are
// never updated afterwards.
func (r *Repository) AppendWithOutbox(ctx context.Context, o domain.Order, traceparent string) (domain.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("serialize line items: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	o.CreatedAt = time.Now().UTC()
	err = tx.QueryRow(ctx, `INSERT INTO orders (user_name, user_email, total_cents, line_items, created_at)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id`,
		o.UserName, o.UserEmail, o.TotalCents, items, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return domain.Order{}, err
	}

	payload, err := json.Marshal(domain.OrderCreated{
		OrderID:    o.ID,
		UserEmail:  o.UserEmail,
		TotalCents: o.TotalCents,
		Items:      o.Items,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("serialize event: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
			VALUES ($1,$2,$3,$4,$5,'pending')`,
		"order", strconv.FormatInt(o.ID, 10), "OrderCreated", payload, traceparent)
	if err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_name, user_email, total_cents, line_items, created_at
			FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, application.ErrOrderNotFound
	}
	return o, err
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_name, user_email, total_cents, line_items, created_at
			FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var items []byte
	if err := row.Scan(&o.ID, &o.UserName, &o.UserEmail, &o.TotalCents, &items, &o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("deserialize line items: %w", err)
	}
	return o, nil
}
