package domain

// Product is the inventory record owned by this service. Stock is the only
// field other services write back, and they do so with partial updates.
type Product struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

// Patch is a partial update: nil fields are left untouched. This is what
// keeps a stock-only write from clobbering name, description, and price.
type Patch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Stock       *int
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceCents == nil && p.Stock == nil
}
