package rfqs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used in dev and tests.
type MemoryRepo struct {
	mu          sync.RWMutex
	rfqs        map[string]RFQ
	order       []string
	assignments map[string][]Assignment
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rfqs:        make(map[string]RFQ),
		assignments: make(map[string][]Assignment),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, rfq RFQ) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rfqs[rfq.ID]; !exists {
		r.order = append(r.order, rfq.ID)
	}
	r.rfqs[rfq.ID] = rfq
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, rfqID string) (RFQ, error) {
	if err := ctx.Err(); err != nil {
		return RFQ{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rfq, ok := r.rfqs[rfqID]
	if !ok {
		return RFQ{}, ErrNotFound
	}
	return rfq, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]RFQ, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []RFQ
	for _, id := range r.order {
		if rfq := r.rfqs[id]; rfq.OwnerID == ownerID {
			owned = append(owned, rfq)
		}
	}
	// Newest first.
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}
	out := make([]RFQ, len(owned))
	copy(out, owned)
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, rfqID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rfq, ok := r.rfqs[rfqID]
	if !ok {
		return ErrNotFound
	}
	rfq.Status = status
	r.rfqs[rfqID] = rfq
	return nil
}

func (r *MemoryRepo) AddAssignments(ctx context.Context, assignments []Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range assignments {
		r.assignments[a.RFQID] = append(r.assignments[a.RFQID], a)
	}
	return nil
}

func (r *MemoryRepo) ListAssignments(ctx context.Context, rfqID string) ([]Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Assignment, len(r.assignments[rfqID]))
	copy(out, r.assignments[rfqID])
	return out, nil
}

// ClaimGuest reassigns every RFQ owned by guestUserID to authedUserID and
// returns how many were moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, rfq := range r.rfqs {
		if rfq.OwnerID == guestUserID {
			rfq.OwnerID = authedUserID
			r.rfqs[id] = rfq
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
