package domain

// InventoryRecord is the remotely-owned stock/price data for a product, as
// read from the products service. It is a point-in-time snapshot: the stock
// value may change underneath the orchestrator between read and write.
type InventoryRecord struct {
	ProductID  string
	Name       string
	PriceCents int64
	Stock      int
}
