package domain

import "time"

// LineItem is a requested (product, quantity) pair before pricing. It is
// request-scoped and never persisted on its own.
type LineItem struct {
	ProductID string
	Quantity  int
}

// PricedLineItem is a snapshot of inventory state taken at validation time.
// Once an order is committed these snapshots are self-contained; later
// inventory changes do not reach back into them.
type PricedLineItem struct {
	ProductID      string `json:"id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	StockBefore    int    `json:"stock_before"`
	StockAfter     int    `json:"stock_after"`
}

func (li PricedLineItem) SubtotalCents() int64 {
	return li.UnitPriceCents * int64(li.Quantity)
}

// Order is the persisted aggregate. ID and CreatedAt are assigned by the
// repository at commit; the aggregate is immutable afterwards.
type Order struct {
	ID         int64
	UserName   string
	UserEmail  string
	TotalCents int64
	Items      []PricedLineItem
	CreatedAt  time.Time
}

// NewOrder builds an unpersisted order, computing the total once from the
// priced snapshots. The total is never recomputed after this point.
func NewOrder(identity Identity, items []PricedLineItem) Order {
	var total int64
	for _, li := range items {
		total += li.SubtotalCents()
	}
	return Order{
		UserName:   identity.Name,
		UserEmail:  identity.Email,
		TotalCents: total,
		Items:      items,
	}
}
