package orders

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"storefront/internal/domain"
)

type ordersAPI interface {
	MyOrders(ctx context.Context, token string) ([]domain.Order, error)
	CancelOrder(ctx context.Context, token, id string) (*domain.Order, error)
}

type sessionSource interface {
	Current() domain.Session
}

// Recorder receives the outcome of every cancellation attempt.
type Recorder interface {
	CancelOutcome(ctx context.Context, outcome string)
}

// Service loads the user's order history and cancels pending orders. It keeps the last
// loaded history as the displayed view.
type Service struct {
	api     ordersAPI
	session sessionSource
	rec     Recorder
	logger  *log.Logger

	mu      sync.Mutex
	history []domain.Order
}

// New creates an orders Service. rec may be nil.
func New(api ordersAPI, session sessionSource, rec Recorder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{api: api, session: session, rec: rec, logger: logger}
}

// Load fetches the order history of the logged-in user and makes it the displayed history.
func (s *Service) Load(ctx context.Context) ([]domain.Order, error) {
	sess := s.session.Current()
	if !sess.Authenticated() {
		return nil, domain.ErrAuthRequired
	}
	list, err := s.api.MyOrders(ctx, sess.Token)
	if err != nil {
		s.logger.Printf("orders: load failed user_id=%s: %v", sess.User.ID, err)
		return nil, err
	}

	s.mu.Lock()
	s.history = cloneOrders(list)
	s.mu.Unlock()
	return list, nil
}

// History returns the displayed history.
func (s *Service) History() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.history)
}

// Reset forgets the displayed history, e.g. after logout.
func (s *Service) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Cancel cancels a pending order of the displayed history. Orders in any other status are
// refused without contacting the service. The displayed status becomes cancelled only
// after the service acknowledges.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	sess := s.session.Current()
	if !sess.Authenticated() {
		s.record(ctx, "auth_required")
		return nil, domain.ErrAuthRequired
	}

	current, ok := s.find(id)
	if !ok {
		s.record(ctx, "not_found")
		return nil, domain.ErrNotFound
	}
	if !current.Cancellable() {
		s.record(ctx, "not_cancellable")
		return nil, domain.ErrNotCancellable
	}

	if _, err := s.api.CancelOrder(ctx, sess.Token, id); err != nil {
		s.logger.Printf("orders: cancel failed order_id=%s: %v", id, err)
		s.record(ctx, "error")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == id {
			s.history[i].Status = domain.OrderStatusCancelled
			current = s.history[i]
		}
	}
	current.Status = domain.OrderStatusCancelled
	s.logger.Printf("orders: cancelled order_id=%s", id)
	s.record(ctx, "success")
	return &current, nil
}

func (s *Service) find(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.history {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Service) record(ctx context.Context, outcome string) {
	if s.rec == nil {
		return
	}
	s.rec.CancelOutcome(ctx, outcome)
}

func cloneOrders(in []domain.Order) []domain.Order {
	if in == nil {
		return nil
	}
	out := make([]domain.Order, len(in))
	for i, o := range in {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out[i] = o
	}
	return out
}

