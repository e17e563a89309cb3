package quota

import "context"

type store interface {
	Get(ctx context.Context, userID string) (Quota, error)
	EnsurePeriod(ctx context.Context, userID string) (Quota, error)
	Consume(ctx context.Context, userID string, n int) (Quota, error)
	Reset(ctx context.Context, userID string) (Quota, error)
}

// Service manages RFQ quotas via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current quota for a user, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Quota, error) {
	return s.store.Get(ctx, userID)
}

// EnsurePeriod rolls the quota forward if the billing period has expired.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Quota, error) {
	return s.store.EnsurePeriod(ctx, userID)
}

// CanConsume reports whether the user can submit n more RFQs.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Quota, error) {
	q, err := s.store.EnsurePeriod(ctx, userID)
	if err != nil {
		return false, Quota{}, err
	}
	if n <= 0 {
		return true, q, nil
	}
	if q.Used+n > q.Limit {
		return false, q, nil
	}
	return true, q, nil
}

// Consume increments usage by n if within the limit.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Quota, error) {
	return s.store.Consume(ctx, userID, n)
}

// Reset sets usage to zero and starts a fresh period.
func (s *Service) Reset(ctx context.Context, userID string) (Quota, error) {
	return s.store.Reset(ctx, userID)
}
