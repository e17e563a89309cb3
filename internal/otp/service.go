package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type store interface {
	Save(ctx context.Context, ch Challenge) error
	GetByPhone(ctx context.Context, phone string) (Challenge, error)
	Delete(ctx context.Context, phone string) error
	RecordSend(ctx context.Context, phone string, at time.Time) error
	CountSendsSince(ctx context.Context, phone string, since time.Time) (int, error)
}

// Service issues and verifies SMS one-time codes.
type Service struct {
	store  store
	sender SMSSender
	now    func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService(sender SMSSender) *Service {
	return &Service{store: newMemoryStore(), sender: sender, now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store, sender SMSSender) *Service {
	return &Service{store: pgStore, sender: sender, now: time.Now}
}

// Send validates the phone, generates a fresh code, and delivers it.
// A new code replaces any pending challenge for the same phone.
func (s *Service) Send(ctx context.Context, rawPhone string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	sends, err := s.store.CountSendsSince(ctx, phone, now.Add(-SendWindow))
	if err != nil {
		return "", err
	}
	if sends >= MaxSendsPerWindow {
		return "", ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	ch := Challenge{
		ID:        uuid.NewString(),
		Phone:     phone,
		CodeHash:  HashCode(code),
		CreatedAt: now,
		ExpiresAt: now.Add(CodeTTL),
	}
	if err := s.store.Save(ctx, ch); err != nil {
		return "", err
	}
	if err := s.store.RecordSend(ctx, phone, now); err != nil {
		return "", err
	}

	if err := s.sender.SendCode(ctx, phone, code); err != nil {
		return "", err
	}
	return phone, nil
}

// Verify checks a code against the pending challenge for the phone. On
// success the challenge is consumed and the normalized phone returned.
func (s *Service) Verify(ctx context.Context, rawPhone, code string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	ch, err := s.store.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	if ch.Expired(now) {
		s.store.Delete(ctx, phone)
		return "", ErrCodeExpired
	}
	if ch.Attempts >= MaxVerifyAttempts {
		return "", ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(HashCode(code)), []byte(ch.CodeHash)) != 1 {
		ch.Attempts++
		if err := s.store.Save(ctx, ch); err != nil {
			return "", err
		}
		if ch.Attempts >= MaxVerifyAttempts {
			return "", ErrTooManyAttempts
		}
		return "", ErrCodeInvalid
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		return "", err
	}
	return phone, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
