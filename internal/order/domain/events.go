package domain

// OrderCreated is the outbox event written in the same transaction as a
// committed order.
type OrderCreated struct {
	OrderID    int64            `json:"order_id"`
	UserEmail  string           `json:"user_email"`
	TotalCents int64            `json:"total_cents"`
	Items      []PricedLineItem `json:"items"`
}
