package vendors

import (
	"context"

	"jengahub-backend/internal/catalog"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// Service contains business logic for the vendor directory.
type Service struct {
	Repo Repo
}

// List returns listable vendors matching the optional category and county
// filters. Only active and approved vendors are ever returned.
func (s *Service) List(ctx context.Context, categorySlug, county string, limit int) ([]Vendor, error) {
	if categorySlug != "" {
		cat, ok := catalog.CategoryBySlug(categorySlug)
		if !ok {
			return nil, ErrInvalidInput
		}
		categorySlug = cat.Slug
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.Repo.List(ctx, ListFilter{
		Status:       []string{StatusActive, StatusApproved},
		CategorySlug: categorySlug,
		County:       county,
		Limit:        limit,
	})
}

// Get returns a single vendor by ID. Vendors that are not listable are
// hidden from the public directory.
func (s *Service) Get(ctx context.Context, vendorID string) (Vendor, error) {
	if vendorID == "" {
		return Vendor{}, ErrInvalidInput
	}
	vendor, err := s.Repo.GetByID(ctx, vendorID)
	if err != nil {
		return Vendor{}, err
	}
	if !vendor.Listable() {
		return Vendor{}, ErrNotFound
	}
	return vendor, nil
}

// Matchable returns all vendors eligible for RFQ matching in a category.
func (s *Service) Matchable(ctx context.Context, categorySlug string) ([]Vendor, error) {
	return s.Repo.List(ctx, ListFilter{
		Status:       []string{StatusActive, StatusApproved},
		CategorySlug: categorySlug,
	})
}
