package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microshop/microshop/internal/product/application"
	"github.com/microshop/microshop/internal/product/domain"
)

type memRepo struct {
	products  map[int64]domain.Product
	nextID    int64
	lastPatch domain.Patch
}

func newMemRepo(products ...domain.Product) *memRepo {
	r := &memRepo{products: map[int64]domain.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *memRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *memRepo) Get(_ context.Context, id int64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, application.ErrProductNotFound
	}
	return p, nil
}

func (r *memRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int64, patch domain.Patch) (domain.Product, error) {
	r.lastPatch = patch
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, application.ErrProductNotFound
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

func (r *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return application.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func newTestHandler(products ...domain.Product) (*Handler, *memRepo) {
	repo := newMemRepo(products...)
	log := slog.New(slog.DiscardHandler)
	return NewHandler(log, application.NewService(log, repo)), repo
}

func do(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestPutStockOnlyIsPartialUpdate(t *testing.T) {
	h, repo := newTestHandler(domain.Product{ID: 7, Name: "teapot", Description: "short and stout", PriceCents: 1250, Stock: 4})

	w := do(h, http.MethodPut, "/api/products/7", `{"stock": 3}`)

	require.Equal(t, http.StatusOK, w.Code)
	// Absent fields never reach the repository as writes.
	assert.Nil(t, repo.lastPatch.Name)
	assert.Nil(t, repo.lastPatch.Description)
	assert.Nil(t, repo.lastPatch.PriceCents)
	require.NotNil(t, repo.lastPatch.Stock)
	assert.Equal(t, 3, *repo.lastPatch.Stock)

	p := repo.products[7]
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, "teapot", p.Name)
	assert.Equal(t, int64(1250), p.PriceCents)
}

func TestPutQuantityAliasUpdatesStock(t *testing.T) {
	h, repo := newTestHandler(domain.Product{ID: 7, Name: "teapot", PriceCents: 1250, Stock: 4})

	w := do(h, http.MethodPut, "/api/products/7", `{"quantity": 9}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, repo.products[7].Stock)
}

func TestGetProduct(t *testing.T) {
	h, _ := newTestHandler(domain.Product{ID: 7, Name: "teapot", Description: "short and stout", PriceCents: 1250, Stock: 4})

	w := do(h, http.MethodGet, "/api/products/7", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":1250`)
	assert.Contains(t, w.Body.String(), `"stock":4`)
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newTestHandler()

	w := do(h, http.MethodGet, "/api/products/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAndDeleteProduct(t *testing.T) {
	h, repo := newTestHandler()

	w := do(h, http.MethodPost, "/api/products", `{"name":"kettle","description":"whistles","price":2000,"stock":10}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.products, 1)

	w = do(h, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.products)
}

func TestCreateProductValidation(t *testing.T) {
	h, _ := newTestHandler()

	w := do(h, http.MethodPost, "/api/products", `{"name":"","price":100,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
