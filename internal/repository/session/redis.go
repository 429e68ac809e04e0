package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

type redisRepo struct {
	client *redis.Client
	slot   string
}

// NewRedis returns a Repository storing the session as one JSON value without expiry.
func NewRedis(client *redis.Client, slot string) Repository {
	return &redisRepo{client: client, slot: slot}
}

func (r *redisRepo) Get(ctx context.Context) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(r.slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", errors.Join(domain.ErrCorruptSession, err))
	}
	if rec.Token == "" {
		return nil, fmt.Errorf("unmarshal session failed: token missing: %w", domain.ErrCorruptSession)
	}
	user := rec.User
	return &domain.Session{User: &user, Token: rec.Token}, nil
}

func (r *redisRepo) Put(ctx context.Context, s domain.Session) error {
	if !s.Authenticated() {
		return errors.New("session repo: refusing to persist a partial session")
	}
	data, err := json.Marshal(record{User: *s.User, Token: s.Token})
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(r.slot), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, sessionKey(r.slot)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func sessionKey(slot string) string {
	return fmt.Sprintf("storefront:session:%s", slot)
}
