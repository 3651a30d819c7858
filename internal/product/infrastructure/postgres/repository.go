package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/microshop/microshop/internal/product/application"
	"github.com/microshop/microshop/internal/product/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO products (name, description, price_cents, stock)
			VALUES ($1,$2,$3,$4)
			RETURNING id`,
		p.Name, p.Description, p.PriceCents, p.Stock).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, price_cents, stock FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, application.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, price_cents, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update only overwrites the columns present in the patch; COALESCE keeps
// the stored value for every nil field.
func (r *Repository) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `UPDATE products SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price_cents = COALESCE($4, price_cents),
			stock = COALESCE($5, stock)
			WHERE id=$1
			RETURNING id, name, description, price_cents, stock`,
		id, patch.Name, patch.Description, patch.PriceCents, patch.Stock).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, application.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return application.ErrProductNotFound
	}
	return nil
}
