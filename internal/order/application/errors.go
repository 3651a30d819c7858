package application

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentity = errors.New("invalid user information")
	ErrInvalidLineItem = errors.New("missing or invalid product information")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrProductNotFound is part of the InventoryClient contract:
	// implementations wrap it when the products service does not know
	// the requested id.
	ErrProductNotFound = errors.New("product not found")
)

const (
	ReasonInsufficientStock = "insufficient stock"
	ReasonNotFound          = "product not found"
	ReasonUnreachable       = "inventory unreachable"
)

// UnavailableItem names one product that blocked the cart and why.
type UnavailableItem struct {
	ProductID string `json:"id"`
	Reason    string `json:"reason"`
}

// RejectedError is the consolidated read-gate failure: every unavailable
// item from the cart, aggregated into a single rejection. A rejected call
// has no side effects.
type RejectedError struct {
	Unavailable []UnavailableItem
}

func (e *RejectedError) Error() string {
	ids := make([]string, 0, len(e.Unavailable))
	for _, u := range e.Unavailable {
		ids = append(ids, u.ProductID)
	}
	return fmt.Sprintf("products unavailable or out of stock: [%s]", strings.Join(ids, ", "))
}
