package application

import (
	"context"

	"github.com/microshop/microshop/internal/order/domain"
)

// OrderRepository persists priced orders. AppendWithOutbox writes the order
// row and its OrderCreated outbox event in one transaction, assigning the
// order's id and creation time.
type OrderRepository interface {
	AppendWithOutbox(ctx context.Context, o domain.Order, traceparent string) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// InventoryClient is the typed facade over the products service. Fetch and
// UpdateStock are independent round trips; UpdateStock is an unconditional
// overwrite of the stock value, not a compare-and-swap.
type InventoryClient interface {
	Fetch(ctx context.Context, productID string) (domain.InventoryRecord, error)
	UpdateStock(ctx context.Context, productID string, newStock int) error
}
