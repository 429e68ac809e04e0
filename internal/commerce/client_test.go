package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	_, err := New("/api", nil, nil)
	require.Error(t, err)
}

func TestOrigin(t *testing.T) {
	c, err := New("https://shop.example.com/base/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", c.Origin())
}

func TestProducts_DecodesArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		_, _ = io.WriteString(w, `[{"_id":"p1","name":"Mug","price":1000,"image":"/uploads/mug.png"}]`)
	})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(1000)))
}

func TestProducts_RejectsNonArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"products":[]}`)
	})

	_, err := c.Products(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLogin_APIErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Identifiants invalides"}`)
	})

	_, err := c.Login(context.Background(), "a@b.c", "secret")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Identifiants invalides", apiErr.Message)
}

func TestLogin_APIErrorFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `oops`)
	})

	_, err := c.Login(context.Background(), "a@b.c", "secret")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Une erreur est survenue", apiErr.Message)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"user":{"_id":"u1","name":"Awa","email":"a@b.c"},"token":"tok"}`)
	})

	res, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "tok", res.Token)
}

func TestCreateOrder_SendsBearerAndIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"items":[{"product":"p1","quantity":2,"price":1000}],"totalAmount":2000,
			"shippingAddress":{"street":"","city":"Dakar","postalCode":"","country":""},"paymentMethod":"Carte bancaire"}`, string(raw))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"o1","items":[{"product":"p1","quantity":2,"price":1000}],"totalAmount":2000,"status":"pending"}`)
	})

	order, err := c.CreateOrder(context.Background(), "tok", "key-1", OrderRequest{
		Items:           []OrderItemRequest{{Product: "p1", Quantity: 2, Price: decimal.NewFromInt(1000)}},
		TotalAmount:     decimal.NewFromInt(2000),
		ShippingAddress: ShippingAddress{City: "Dakar"},
		PaymentMethod:   "Carte bancaire",
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "p1", order.Items[0].Product.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestMyOrders_PopulatedProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/my-orders", r.URL.Path)
		_, _ = io.WriteString(w, `[{"_id":"o1","items":[{"_id":"i1","product":{"_id":"p1","name":"Mug","price":1000,"image":"x"},"quantity":1,"price":1000}],"totalAmount":1000,"status":"shipped","createdAt":"2024-05-01T10:00:00Z"}]`)
	})

	orders, err := c.MyOrders(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Mug", orders[0].Items[0].Product.Name)
	assert.False(t, orders[0].Cancellable())
}

func TestCancelOrder_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/orders/o1/cancel", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	order, err := c.CancelOrder(context.Background(), "tok", "o1")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Products(context.Background())
	var netErr *domain.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Product(ctx, "p1")
	assert.ErrorIs(t, err, context.Canceled)
}
