package application

import (
	"context"

	"github.com/microshop/microshop/internal/product/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
