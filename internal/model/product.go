package model

import "time"

// Product represents a listing in the marketplace catalogue. Prices are
// stored in minor currency units (pence).
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	SellerID    string    `json:"sellerId" db:"seller_id"`
	SellerName  string    `json:"sellerName" db:"seller_name"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductRequest represents the request payload for creating a product.
type ProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
}

// StockRequest represents the request payload for a seller stock edit.
type StockRequest struct {
	Stock int `json:"stock"`
}
