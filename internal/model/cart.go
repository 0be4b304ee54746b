package model

import "time"

// CartItem is a single cart line. It carries a denormalised snapshot of the
// product taken at add time so the cart renders without a catalogue lookup;
// stock is re-checked against the live product at checkout.
type CartItem struct {
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      int64     `json:"price"`
	ImageURL   string    `json:"imageUrl"`
	SellerID   string    `json:"sellerId"`
	SellerName string    `json:"sellerName"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"addedAt"`
}

// Cart is the per-user collection of selected products awaiting purchase.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Total returns the sum of price x quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of quantities across lines, not the number of
// distinct lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Item returns the line for the given product, or nil when absent.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Has reports whether the cart contains the given product.
func (c *Cart) Has(productID string) bool {
	return c.Item(productID) != nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItemRequest represents the request payload for adding a cart line.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// QuantityRequest represents the request payload for a quantity update.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}
