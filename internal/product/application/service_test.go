package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microshop/microshop/internal/product/domain"
)

type stubRepo struct {
	products map[int64]domain.Product
	nextID   int64

	lastPatch domain.Patch
}

func newStubRepo(products ...domain.Product) *stubRepo {
	r := &stubRepo{products: map[int64]domain.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *stubRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, patch domain.Patch) (domain.Product, error) {
	r.lastPatch = patch
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	r.products[id] = p
	return p, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func newTestService(repo ProductRepository) *Service {
	return NewService(slog.New(slog.DiscardHandler), repo)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.Create(context.Background(), domain.Product{Name: "", PriceCents: 100, Stock: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(context.Background(), domain.Product{Name: "teapot", PriceCents: -1, Stock: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	p, err := svc.Create(context.Background(), domain.Product{Name: "teapot", PriceCents: 1250, Stock: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestUpdateStockOnlyLeavesOtherFields(t *testing.T) {
	repo := newStubRepo(domain.Product{ID: 7, Name: "teapot", Description: "short and stout", PriceCents: 1250, Stock: 4})
	svc := newTestService(repo)

	stock := 2
	p, err := svc.Update(context.Background(), 7, domain.Patch{Stock: &stock})

	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, "teapot", p.Name)
	assert.Equal(t, "short and stout", p.Description)
	assert.Equal(t, int64(1250), p.PriceCents)
}

func TestUpdateRejectsBadPatches(t *testing.T) {
	repo := newStubRepo(domain.Product{ID: 7, Name: "teapot", PriceCents: 1250, Stock: 4})
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), 7, domain.Patch{})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	negStock := -1
	_, err = svc.Update(context.Background(), 7, domain.Patch{Stock: &negStock})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	empty := ""
	_, err = svc.Update(context.Background(), 7, domain.Patch{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := newTestService(newStubRepo())

	stock := 1
	_, err := svc.Update(context.Background(), 99, domain.Patch{Stock: &stock})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
