package vendors

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Vendor
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends a vendor.
func (r *MemoryRepo) Create(ctx context.Context, vendor Vendor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, vendor)
	return nil
}

// List returns vendors matching the filter, in insertion order.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Vendor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Vendor, 0, len(r.data))
	for _, v := range r.data {
		if !matchesFilter(v, filter) {
			continue
		}
		out = append(out, v)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// GetByID returns a vendor by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, vendorID string) (Vendor, error) {
	if err := ctx.Err(); err != nil {
		return Vendor{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.data {
		if v.ID == vendorID {
			return v, nil
		}
	}
	return Vendor{}, ErrNotFound
}

func matchesFilter(v Vendor, filter ListFilter) bool {
	if len(filter.Status) > 0 {
		ok := false
		for _, s := range filter.Status {
			if v.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if filter.CategorySlug != "" {
		if v.PrimaryCategorySlug != filter.CategorySlug && !hasSecondary(v, filter.CategorySlug) {
			return false
		}
	}
	if filter.County != "" && !strings.EqualFold(strings.TrimSpace(v.County), strings.TrimSpace(filter.County)) {
		return false
	}
	return true
}

func hasSecondary(v Vendor, slug string) bool {
	for _, s := range v.SecondaryCategories {
		if s == slug {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
