package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name     string
		items    []CartItem
		expected int64
	}{
		{
			name:     "Empty cart totals zero",
			items:    nil,
			expected: 0,
		},
		{
			name: "Single line",
			items: []CartItem{
				{ProductID: "P001", Price: 4500, Quantity: 1},
			},
			expected: 4500,
		},
		{
			name: "Two lines with quantities",
			items: []CartItem{
				{ProductID: "P001", Price: 10000, Quantity: 2},
				{ProductID: "P002", Price: 5000, Quantity: 1},
			},
			expected: 25000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &Cart{UserID: "U001", Items: tt.items}
			assert.Equal(t, tt.expected, cart.Total())
		})
	}
}

func TestCart_ItemCount(t *testing.T) {
	cart := &Cart{
		UserID: "U001",
		Items: []CartItem{
			{ProductID: "P001", Price: 10000, Quantity: 2},
			{ProductID: "P002", Price: 5000, Quantity: 1},
		},
	}

	// Counts units, not distinct lines.
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_Item(t *testing.T) {
	cart := &Cart{
		UserID: "U001",
		Items: []CartItem{
			{ProductID: "P001", Price: 4500, Quantity: 1},
			{ProductID: "P002", Price: 1500, Quantity: 2},
		},
	}

	item := cart.Item("P002")
	assert.NotNil(t, item)
	assert.Equal(t, int64(1500), item.Price)

	// Returned pointer aliases the line so callers can mutate it.
	item.Quantity = 5
	assert.Equal(t, 5, cart.Items[1].Quantity)

	assert.Nil(t, cart.Item("P999"))
}

func TestCart_Has(t *testing.T) {
	cart := &Cart{
		UserID: "U001",
		Items: []CartItem{
			{ProductID: "P001", Quantity: 1},
		},
	}

	assert.True(t, cart.Has("P001"))
	assert.False(t, cart.Has("P002"))
}

func TestCart_IsEmpty(t *testing.T) {
	empty := &Cart{UserID: "U001"}
	assert.True(t, empty.IsEmpty())

	full := &Cart{UserID: "U001", Items: []CartItem{{ProductID: "P001", Quantity: 1}}}
	assert.False(t, full.IsEmpty())
}
