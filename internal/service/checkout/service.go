package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/cart"
	"storefront/internal/commerce"
	"storefront/internal/domain"
)

// DefaultPaymentMethod is sent when none is configured.
const DefaultPaymentMethod = "Carte bancaire"

var tracer = otel.Tracer("storefront/checkout")

type orderAPI interface {
	CreateOrder(ctx context.Context, token, idempotencyKey string, in commerce.OrderRequest) (*domain.Order, error)
}

type sessionSource interface {
	Current() domain.Session
}

type cartState interface {
	Lines() []domain.CartLine
	Settle(ordered []domain.CartLine)
}

// Recorder receives the outcome of every checkout attempt.
type Recorder interface {
	CheckoutOutcome(ctx context.Context, outcome string, elapsed time.Duration)
}

// Options tunes the order that is sent.
type Options struct {
	PaymentMethod string
	// RequireAddress rejects checkout when the user profile lacks street, city, postal code or country.
	RequireAddress bool
}

// Service turns the cart into an order for the logged-in user.
type Service struct {
	api     orderAPI
	session sessionSource
	cart    cartState
	rec     Recorder
	opts    Options
	logger  *log.Logger

	busy   atomic.Bool
	newKey func() string
}

// New creates a checkout Service. rec may be nil.
func New(api orderAPI, session sessionSource, c cartState, rec Recorder, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if strings.TrimSpace(opts.PaymentMethod) == "" {
		opts.PaymentMethod = DefaultPaymentMethod
	}
	return &Service{
		api:     api,
		session: session,
		cart:    c,
		rec:     rec,
		opts:    opts,
		logger:  logger,
		newKey:  func() string { return uuid.NewString() },
	}
}

// InProgress reports whether an order submission is in flight.
func (s *Service) InProgress() bool {
	return s.busy.Load()
}

// Checkout submits the cart as an order. Preconditions are checked before anything is sent:
// an anonymous session yields ErrAuthRequired, a concurrent attempt ErrCheckoutInProgress and an
// empty cart a ValidationError. Only once the order is accepted are the submitted lines
// taken out of the cart; lines changed while the order was in flight are kept.
func (s *Service) Checkout(ctx context.Context) (*domain.Order, error) {
	start := time.Now()
	sess := s.session.Current()
	if !sess.Authenticated() {
		s.record(ctx, "auth_required", start)
		return nil, domain.ErrAuthRequired
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.record(ctx, "in_progress", start)
		return nil, domain.ErrCheckoutInProgress
	}
	defer s.busy.Store(false)

	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.record(ctx, "empty_cart", start)
		return nil, domain.Invalid("cart", "Votre panier est vide")
	}

	req := BuildRequest(lines, *sess.User, s.opts.PaymentMethod)
	if s.opts.RequireAddress {
		if err := validateAddress(req.ShippingAddress); err != nil {
			s.record(ctx, "invalid_address", start)
			return nil, err
		}
	}

	key := s.newKey()
	ctx, span := tracer.Start(ctx, "checkout.create_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int("cart.lines", len(lines)),
		attribute.String("order.total", req.TotalAmount.String()),
		attribute.String("idempotency.key", key),
	)

	order, err := s.api.CreateOrder(ctx, sess.Token, key, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Printf("checkout: create order failed user_id=%s key=%s: %v", sess.User.ID, key, err)
		s.record(ctx, outcomeOf(err), start)
		return nil, err
	}

	s.cart.Settle(lines)
	s.logger.Printf("checkout: order placed user_id=%s order_id=%s key=%s", sess.User.ID, order.ID, key)
	s.record(ctx, "success", start)
	return order, nil
}

func (s *Service) record(ctx context.Context, outcome string, start time.Time) {
	if s.rec == nil {
		return
	}
	s.rec.CheckoutOutcome(ctx, outcome, time.Since(start))
}

// BuildRequest maps cart lines and the user's profile to the order payload. Missing address
// fields are sent as empty strings.
func BuildRequest(lines []domain.CartLine, user domain.User, paymentMethod string) commerce.OrderRequest {
	items := make([]commerce.OrderItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, commerce.OrderItemRequest{
			Product:  l.ProductID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
		})
	}
	return commerce.OrderRequest{
		Items:       items,
		TotalAmount: cart.Total(lines),
		ShippingAddress: commerce.ShippingAddress{
			Street:     user.Address,
			City:       user.City,
			PostalCode: user.PostalCode,
			Country:    user.Country,
		},
		PaymentMethod: paymentMethod,
	}
}

func validateAddress(a commerce.ShippingAddress) error {
	switch {
	case strings.TrimSpace(a.Street) == "":
		return domain.Invalid("address", "Adresse de livraison incomplète")
	case strings.TrimSpace(a.City) == "":
		return domain.Invalid("city", "Adresse de livraison incomplète")
	case strings.TrimSpace(a.PostalCode) == "":
		return domain.Invalid("postalCode", "Adresse de livraison incomplète")
	case strings.TrimSpace(a.Country) == "":
		return domain.Invalid("country", "Adresse de livraison incomplète")
	}
	return nil
}

func outcomeOf(err error) string {
	var apiErr *domain.APIError
	var netErr *domain.NetworkError
	switch {
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
