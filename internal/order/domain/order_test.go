package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderComputesTotalOnce(t *testing.T) {
	items := []PricedLineItem{
		{ProductID: "1", Quantity: 2, UnitPriceCents: 1000, StockBefore: 5, StockAfter: 3},
		{ProductID: "2", Quantity: 1, UnitPriceCents: 250, StockBefore: 1, StockAfter: 0},
	}

	o := NewOrder(Identity{Name: "Ana", Email: "ana@shop.test"}, items)

	assert.Equal(t, int64(2250), o.TotalCents)
	assert.Equal(t, "Ana", o.UserName)
	assert.Equal(t, "ana@shop.test", o.UserEmail)
	assert.Len(t, o.Items, 2)
	assert.Zero(t, o.ID, "id is assigned by the repository, not the constructor")
	assert.True(t, o.CreatedAt.IsZero(), "creation time is assigned at commit")
}
