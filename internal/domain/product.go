package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry of the commerce service.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	// ImageURL is Image resolved against the commerce service origin.
	ImageURL string `json:"imageUrl,omitempty"`
}

// ProductRef is an order item's product: either a bare id or a populated product.
type ProductRef struct {
	Product
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		r.Product = Product{ID: id}
		return nil
	}
	return json.Unmarshal(data, &r.Product)
}
