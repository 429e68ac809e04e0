package auth

import (
	"context"
	"io"
	"log"
	"strings"

	"storefront/internal/commerce"
	"storefront/internal/domain"
)

const passwordMin = 6

type authAPI interface {
	Login(ctx context.Context, email, password string) (*commerce.AuthResult, error)
	Register(ctx context.Context, in commerce.RegisterRequest) (*commerce.AuthResult, error)
}

type sessionStore interface {
	Login(ctx context.Context, user domain.User, token string) error
	Logout(ctx context.Context) error
}

// Service runs the login, register and logout flows against the commerce service and
// records the outcome in the session.
type Service struct {
	api     authAPI
	session sessionStore
	logger  *log.Logger
}

// New creates an auth Service.
func New(api authAPI, session sessionStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{api: api, session: session, logger: logger}
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the registration form. Address and phone are optional.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

// Login authenticates with the commerce service and stores the session.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.Invalid("email", "L'email est requis")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "Le mot de passe est requis")
	}
	res, err := s.api.Login(ctx, email, in.Password)
	if err != nil {
		s.logger.Printf("auth: login failed email=%s: %v", email, err)
		return nil, err
	}
	return s.establish(ctx, res)
}

// Register creates an account and logs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	res, err := s.api.Register(ctx, commerce.RegisterRequest{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Address:  strings.TrimSpace(in.Address),
		Phone:    strings.TrimSpace(in.Phone),
	})
	if err != nil {
		s.logger.Printf("auth: register failed email=%s: %v", in.Email, err)
		return nil, err
	}
	return s.establish(ctx, res)
}

// Logout ends the session. It never contacts the commerce service.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *Service) establish(ctx context.Context, res *commerce.AuthResult) (*domain.User, error) {
	if res == nil || res.Token == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := s.session.Login(ctx, res.User, res.Token); err != nil {
		return nil, err
	}
	user := res.User
	return &user, nil
}

func validateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "Le nom est requis")
	}
	if strings.TrimSpace(in.Email) == "" {
		return domain.Invalid("email", "L'email est requis")
	}
	if in.Password != in.ConfirmPassword {
		return domain.Invalid("confirmPassword", "Les mots de passe ne correspondent pas")
	}
	return validatePassword(in.Password, passwordMin)
}

func validatePassword(p string, min int) error {
	if len([]rune(p)) < min {
		return domain.Invalid("password", "Le mot de passe doit contenir au moins 6 caractères")
	}
	return nil
}
