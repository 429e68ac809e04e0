package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"storefront/internal/domain"
)

// store is the persistence the Manager needs; satisfied by repository/session.
type store interface {
	Get(ctx context.Context) (*domain.Session, error)
	Put(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context) error
}

// Manager is the single owner of the client session. It keeps the in-memory copy and the
// persisted record in step: the record is written first and memory follows.
type Manager struct {
	store  store
	logger *log.Logger

	mu      sync.RWMutex
	current domain.Session
}

// NewManager returns an anonymous Manager; call Load to restore a persisted session.
func NewManager(st store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{store: st, logger: logger}
}

// Load restores the persisted session. A missing or unreadable record leaves the client
// anonymous and an unreadable one is deleted. Errors are reported, never as a fatal condition.
func (m *Manager) Load(ctx context.Context) error {
	s, err := m.store.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.logger.Printf("session: no stored session, starting anonymous")
			return nil
		}
		if errors.Is(err, domain.ErrCorruptSession) {
			m.logger.Printf("session: stored session unreadable, discarding it: %v", err)
			if delErr := m.store.Delete(ctx); delErr != nil {
				m.logger.Printf("session: discard unreadable session: %v", delErr)
			}
		} else {
			m.logger.Printf("session: stored session unavailable, starting anonymous: %v", err)
		}
		return fmt.Errorf("load session: %w", err)
	}
	if !s.Authenticated() {
		m.logger.Printf("session: stored session incomplete, starting anonymous")
		return nil
	}

	m.mu.Lock()
	m.current = domain.Session{User: cloneUser(s.User), Token: s.Token}
	m.mu.Unlock()
	m.logger.Printf("session: restored user_id=%s", s.User.ID)
	return nil
}

// Login replaces the current session. Nothing changes if persisting fails.
func (m *Manager) Login(ctx context.Context, user domain.User, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invalid("token", "token is required")
	}
	if strings.TrimSpace(user.ID) == "" && strings.TrimSpace(user.Email) == "" {
		return domain.Invalid("user", "user is required")
	}
	next := domain.Session{User: cloneUser(&user), Token: token}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Put(ctx, next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.current = next
	m.logger.Printf("session: login user_id=%s", user.ID)
	return nil
}

// Logout clears the session. Logging out while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.Authenticated() {
		return nil
	}
	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Printf("session: logout user_id=%s", m.current.User.ID)
	m.current = domain.Session{}
	return nil
}

// Current returns a copy of the session.
func (m *Manager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Session{User: cloneUser(m.current.User), Token: m.current.Token}
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Authenticated()
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
