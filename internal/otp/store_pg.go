package otp

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed OTP store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Save(ctx context.Context, ch Challenge) error {
	const query = `
INSERT INTO otp_challenges (id, phone, code_hash, attempts, verified, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (phone) DO UPDATE SET
    id = EXCLUDED.id,
    code_hash = EXCLUDED.code_hash,
    attempts = EXCLUDED.attempts,
    verified = EXCLUDED.verified,
    created_at = EXCLUDED.created_at,
    expires_at = EXCLUDED.expires_at`
	_, err := s.DB.ExecContext(ctx, query,
		ch.ID, ch.Phone, ch.CodeHash, ch.Attempts, ch.Verified, ch.CreatedAt, ch.ExpiresAt)
	return err
}

func (s *pgStore) GetByPhone(ctx context.Context, phone string) (Challenge, error) {
	const query = `
SELECT id, phone, code_hash, attempts, verified, created_at, expires_at
FROM otp_challenges WHERE phone = $1`
	var ch Challenge
	err := s.DB.QueryRowContext(ctx, query, phone).Scan(
		&ch.ID, &ch.Phone, &ch.CodeHash, &ch.Attempts, &ch.Verified, &ch.CreatedAt, &ch.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Challenge{}, ErrNoChallenge
		}
		return Challenge{}, err
	}
	return ch, nil
}

func (s *pgStore) Delete(ctx context.Context, phone string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM otp_challenges WHERE phone = $1`, phone)
	return err
}

func (s *pgStore) RecordSend(ctx context.Context, phone string, at time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO otp_sends (phone, sent_at) VALUES ($1, $2)`, phone, at)
	return err
}

func (s *pgStore) CountSendsSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM otp_sends WHERE phone = $1 AND sent_at > $2`, phone, since).Scan(&n)
	return n, err
}
