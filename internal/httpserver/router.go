package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
)

type sessionView interface {
	Current() domain.Session
	Authenticated() bool
}

type cartStore interface {
	Add(line domain.CartLine) error
	UpdateQuantity(productID string, quantity int) error
	Remove(productID string)
	Lines() []domain.CartLine
	Total() decimal.Decimal
	Count() int
}

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Featured(ctx context.Context, n int) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	ImageURL(ref string) string
}

type authService interface {
	Login(ctx context.Context, in authsvc.LoginInput) (*domain.User, error)
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Logout(ctx context.Context) error
}

type checkoutService interface {
	Checkout(ctx context.Context) (*domain.Order, error)
	InProgress() bool
}

type orderService interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
	Reset()
}

type cartRecorder interface {
	CartChanged(ctx context.Context, op string)
}

// Deps bundles what the views need.
type Deps struct {
	Session  sessionView
	Cart     cartStore
	Catalog  catalogService
	Auth     authService
	Checkout checkoutService
	Orders   orderService

	// Store backs /readyz.
	Store pinger
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// CartEvents may be nil.
	CartEvents  cartRecorder
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Session == nil:
		return errors.New("httpserver: session is required")
	case d.Cart == nil:
		return errors.New("httpserver: cart is required")
	case d.Catalog == nil:
		return errors.New("httpserver: catalog service is required")
	case d.Auth == nil:
		return errors.New("httpserver: auth service is required")
	case d.Checkout == nil:
		return errors.New("httpserver: checkout service is required")
	case d.Orders == nil:
		return errors.New("httpserver: orders service is required")
	}
	return nil
}

// buildRouter wires the storefront views.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	h := &handlers{deps: deps, logger: logger}
	views := router.Group("/views")
	{
		views.GET("/nav", h.nav)
		views.GET("/home", h.home)
		views.GET("/products", h.products)
		views.GET("/products/:id", h.product)

		views.GET("/cart", h.cart)
		views.POST("/cart/items", h.addToCart)
		views.PATCH("/cart/items/:productId", h.updateCartItem)
		views.DELETE("/cart/items/:productId", h.removeCartItem)
		views.POST("/cart/checkout", h.checkout)

		views.GET("/login", h.loginPage)
		views.POST("/login", h.login)
		views.GET("/register", h.registerPage)
		views.POST("/register", h.register)
		views.POST("/logout", h.logout)

		views.GET("/orders", h.orders)
		views.POST("/orders/:id/cancel", h.cancelOrder)
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
