package commerce

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// OrderItemRequest references a product by id.
type OrderItemRequest struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// CreateOrder submits an order. idempotencyKey is sent as the Idempotency-Key header when set.
func (c *Client) CreateOrder(ctx context.Context, token, idempotencyKey string, in OrderRequest) (*domain.Order, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}
	var out domain.Order
	if err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/orders",
		token:    token,
		header:   header,
		body:     in,
		fallback: "Erreur lors de la création de la commande",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrders lists the orders of the session's user.
func (c *Client) MyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/orders/my-orders",
		token:    token,
		fallback: "Erreur lors de la récupération des commandes",
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

// CancelOrder asks the service to cancel an order. The returned order is nil when the
// service acknowledges without a body.
func (c *Client) CancelOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, request{
		method:   http.MethodPatch,
		path:     "/api/orders/" + url.PathEscape(id) + "/cancel",
		token:    token,
		fallback: "Erreur lors de l'annulation de la commande",
	}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}
