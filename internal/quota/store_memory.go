package quota

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Quota
	now  func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		data: make(map[string]Quota),
		now:  time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.mu.RLock()
	q, ok := s.data[userID]
	s.mu.RUnlock()
	if ok && s.now().UTC().Before(q.ResetsAt) {
		return q, nil
	}
	return s.ensure(ctx, userID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Quota, error) {
	return s.ensure(ctx, userID)
}

func (s *memoryStore) ensure(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		q = defaultQuota(now)
	}
	if !now.Before(q.ResetsAt) {
		q.Used = 0
		q.ResetsAt = nextPeriodStart(now)
	}
	s.data[userID] = q
	return q, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Quota, error) {
	if n <= 0 {
		return s.ensure(ctx, userID)
	}
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		q = defaultQuota(now)
	}
	if !now.Before(q.ResetsAt) {
		q.Used = 0
		q.ResetsAt = nextPeriodStart(now)
	}
	if q.Used+n > q.Limit {
		return Quota{}, ErrLimitReached
	}
	q.Used += n
	s.data[userID] = q
	return q, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.data[userID]
	if !ok {
		q = defaultQuota(now)
	}
	q.Used = 0
	q.ResetsAt = nextPeriodStart(now)
	s.data[userID] = q
	return q, nil
}
