package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	SellerID    string `json:"sellerId"`
	SellerName  string `json:"sellerName"`
	ImageURL    string `json:"imageUrl"`
	CreatedAt   string `json:"createdAt"`
}

// generateSampleProducts writes a sample catalogue seed file for local
// development. Prices are in pence.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	products := []product{
		{
			ID:          "b7a1c9d2-0001-4f6e-9a2b-3c4d5e6f7a81",
			Name:        "Calculus Early Transcendentals (9th Edition)",
			Category:    "textbooks",
			Description: "Barely used, no highlighting. Covers MATH 101 and 102.",
			Price:       4500,
			Stock:       2,
			SellerID:    "seller-amara",
			SellerName:  "Amara Okafor",
			ImageURL:    "https://images.sellora.test/calculus-9e.jpg",
			CreatedAt:   now,
		},
		{
			ID:          "b7a1c9d2-0002-4f6e-9a2b-3c4d5e6f7a82",
			Name:        "Mini Fridge 45L",
			Category:    "appliances",
			Description: "Perfect for halls. Quiet compressor, two shelves.",
			Price:       6000,
			Stock:       1,
			SellerID:    "seller-jordi",
			SellerName:  "Jordi Puig",
			ImageURL:    "https://images.sellora.test/mini-fridge.jpg",
			CreatedAt:   now,
		},
		{
			ID:          "b7a1c9d2-0003-4f6e-9a2b-3c4d5e6f7a83",
			Name:        "Desk Lamp with USB Port",
			Category:    "furniture",
			Description: "Adjustable arm, warm and cool modes.",
			Price:       1500,
			Stock:       5,
			SellerID:    "seller-amara",
			SellerName:  "Amara Okafor",
			ImageURL:    "https://images.sellora.test/desk-lamp.jpg",
			CreatedAt:   now,
		},
		{
			ID:          "b7a1c9d2-0004-4f6e-9a2b-3c4d5e6f7a84",
			Name:        "TI-84 Plus Graphing Calculator",
			Category:    "electronics",
			Description: "Works perfectly, includes charging cable.",
			Price:       5500,
			Stock:       3,
			SellerID:    "seller-mina",
			SellerName:  "Mina Haddad",
			ImageURL:    "https://images.sellora.test/ti-84.jpg",
			CreatedAt:   now,
		},
		{
			ID:          "b7a1c9d2-0005-4f6e-9a2b-3c4d5e6f7a85",
			Name:        "Organic Chemistry Model Kit",
			Category:    "textbooks",
			Description: "Complete molecular model set, all pieces present.",
			Price:       1200,
			Stock:       4,
			SellerID:    "seller-mina",
			SellerName:  "Mina Haddad",
			ImageURL:    "https://images.sellora.test/chem-kit.jpg",
			CreatedAt:   now,
		},
	}

	filePath := filepath.Join(dataDir, "products.json")
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}
