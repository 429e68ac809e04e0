package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

// Products lists the catalog. A body that is not a JSON array is rejected.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/products",
		fallback: "Erreur lors du chargement des produits",
	}, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, domain.ErrInvalidPayload
	}
	var products []domain.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/products/" + url.PathEscape(id),
		fallback: "Produit non trouvé",
	}, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}
