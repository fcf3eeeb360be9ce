package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	CategoryFireExtinguishers = "fire_extinguishers"

	// MaxProductImages is the most images a product may carry.
	MaxProductImages = 5
)

// Product is a catalog item.
type Product struct {
	ID             ID              `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stock_quantity"`
	Images         []string        `json:"images,omitempty"`
	Specifications json.RawMessage `json:"specifications,omitempty"`
	IsAvailable    bool            `json:"is_available"`
	CreatedAt      *Timestamp      `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts "_id" as an alias for "id".
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

// Page is the pagination envelope shared by list endpoints.
type Page struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// ProductList is the body of GET /api/products.
type ProductList struct {
	Products []Product `json:"products"`
	Page
}
