package model

import "time"

// AccountType distinguishes buyer and seller profiles.
type AccountType string

const (
	AccountBuyer  AccountType = "buyer"
	AccountSeller AccountType = "seller"
)

// User mirrors the profile document owned by the external auth layer. This
// service only reads the identifier and maintains the aggregate counters,
// which are updated opportunistically after checkout rather than inside the
// order transaction.
type User struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	AccountType  AccountType `json:"accountType" db:"account_type"`
	TotalOrders  int         `json:"totalOrders" db:"total_orders"`
	TotalSpent   int64       `json:"totalSpent" db:"total_spent"`
	TotalSales   int         `json:"totalSales" db:"total_sales"`
	TotalRevenue int64       `json:"totalRevenue" db:"total_revenue"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}
