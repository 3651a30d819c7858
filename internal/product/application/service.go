package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/microshop/microshop/internal/product/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product data")
)

type Service struct {
	log  *slog.Logger
	repo ProductRepository
}

func NewService(log *slog.Logger, repo ProductRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" || p.PriceCents < 0 || p.Stock < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. Fields absent from the patch keep their
// stored values, so a caller adjusting stock cannot blank out the rest of
// the record.
func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Product, error) {
	if patch.Empty() {
		return domain.Product{}, ErrInvalidProduct
	}
	if patch.Name != nil && *patch.Name == "" {
		return domain.Product{}, ErrInvalidProduct
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
