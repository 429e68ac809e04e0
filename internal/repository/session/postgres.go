package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	slot   string
	logger *log.Logger
}

// NewPostgres returns a Repository backed by the client_sessions table.
func NewPostgres(pool *pgxpool.Pool, slot string, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, slot: slot, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.Session, error) {
	const q = `
SELECT user_record, token
FROM client_sessions
WHERE slot = $1
`
	var userJSON []byte
	var token string
	if err := r.pool.QueryRow(ctx, q, r.slot).Scan(&userJSON, &token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("session repo: get slot=%s error=%v", r.slot, err)
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		r.logger.Printf("session repo: decode user slot=%s err=%v", r.slot, err)
		return nil, fmt.Errorf("decode session user: %w", errors.Join(domain.ErrCorruptSession, err))
	}
	return &domain.Session{User: &user, Token: token}, nil
}

func (r *postgresRepo) Put(ctx context.Context, s domain.Session) error {
	if !s.Authenticated() {
		return errors.New("session repo: refusing to persist a partial session")
	}
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO client_sessions (slot, user_record, token, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (slot) DO UPDATE
SET user_record = EXCLUDED.user_record,
    token = EXCLUDED.token,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, r.slot, userJSON, s.Token); err != nil {
		r.logger.Printf("session repo: put slot=%s error=%v", r.slot, err)
		return err
	}
	r.logger.Printf("session repo: stored slot=%s user_id=%s", r.slot, s.User.ID)
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client_sessions WHERE slot = $1`, r.slot)
	if err != nil {
		r.logger.Printf("session repo: delete slot=%s error=%v", r.slot, err)
		return err
	}
	r.logger.Printf("session repo: delete slot=%s rows=%d", r.slot, cmd.RowsAffected())
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
