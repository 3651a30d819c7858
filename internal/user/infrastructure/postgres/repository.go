package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/microshop/microshop/internal/user/application"
	"github.com/microshop/microshop/internal/user/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO users (name, email) VALUES ($1,$2) RETURNING id`,
		u.Name, u.Email).Scan(&u.ID)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `SELECT id, name, email FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, application.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) Update(ctx context.Context, u domain.User) (domain.User, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE users SET name=$2, email=$3 WHERE id=$1`, u.ID, u.Name, u.Email)
	if err != nil {
		return domain.User{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.User{}, application.ErrUserNotFound
	}
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return application.ErrUserNotFound
	}
	return nil
}
