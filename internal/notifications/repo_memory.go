package notifications

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Notification
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, n)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Notification
	// Newest first.
	for i := len(r.data) - 1; i >= 0; i-- {
		if r.data[i].UserID != userID {
			continue
		}
		out = append(out, r.data[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		if r.data[i].ID == notificationID && r.data[i].UserID == userID {
			r.data[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// ClaimGuest reassigns notifications addressed to guestUserID to
// authedUserID and returns how many were moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.data {
		if r.data[i].UserID == guestUserID {
			r.data[i].UserID = authedUserID
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
