package commerce

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

// AuthResult is the body returned by login and register.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/login",
		body:     loginRequest{Email: email, Password: password},
		fallback: "Une erreur est survenue",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/register",
		body:     in,
		fallback: "Une erreur est survenue",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
