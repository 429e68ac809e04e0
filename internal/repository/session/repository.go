package session

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists the client's session as one record in one named slot, so the
// user and the token are always written and removed together.
type Repository interface {
	Get(ctx context.Context) (*domain.Session, error)
	Put(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context) error
	Ping(ctx context.Context) error
}

// record is the serialized form shared by the backends.
type record struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}
