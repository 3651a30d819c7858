package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/microshop/microshop/internal/order/domain"
)

// stubInventory implements InventoryClient over an in-memory record map.
// Fetch serves a snapshot of the stored record; UpdateStock overwrites it
// unconditionally, like the real products service does.
type stubInventory struct {
	mu      sync.Mutex
	records map[string]domain.InventoryRecord

	fetchErr   map[string]error
	fetchDelay map[string]time.Duration
	updateErr  map[string]error

	updateCalls map[string]int
}

func newStubInventory(records ...domain.InventoryRecord) *stubInventory {
	s := &stubInventory{
		records:     map[string]domain.InventoryRecord{},
		fetchErr:    map[string]error{},
		fetchDelay:  map[string]time.Duration{},
		updateErr:   map[string]error{},
		updateCalls: map[string]int{},
	}
	for _, r := range records {
		s.records[r.ProductID] = r
	}
	return s
}

func (s *stubInventory) Fetch(ctx context.Context, productID string) (domain.InventoryRecord, error) {
	s.mu.Lock()
	delay := s.fetchDelay[productID]
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.InventoryRecord{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fetchErr[productID]; err != nil {
		return domain.InventoryRecord{}, err
	}
	rec, ok := s.records[productID]
	if !ok {
		return domain.InventoryRecord{}, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	return rec, nil
}

func (s *stubInventory) UpdateStock(ctx context.Context, productID string, newStock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[productID]; err != nil {
		return err
	}
	rec := s.records[productID]
	rec.Stock = newStock
	s.records[productID] = rec
	s.updateCalls[productID]++
	return nil
}

func (s *stubInventory) stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[productID].Stock
}

func (s *stubInventory) totalUpdates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.updateCalls {
		n += c
	}
	return n
}

// stubRepo implements OrderRepository in memory, assigning sequential ids
// the way the postgres repository's BIGSERIAL column does.
type stubRepo struct {
	mu        sync.Mutex
	appendErr error
	nextID    int64
	orders    []domain.Order
}

func (r *stubRepo) AppendWithOutbox(ctx context.Context, o domain.Order, traceparent string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return domain.Order{}, r.appendErr
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now().UTC()
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *stubRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (r *stubRepo) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Order(nil), r.orders...), nil
}

func (r *stubRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
