package vendors

import (
	"context"
	"errors"
)

var ErrNotFound = errNotFound{}

// ErrInvalidInput indicates a request that cannot be served as given.
var ErrInvalidInput = errors.New("invalid input")

type errNotFound struct{}

func (errNotFound) Error() string { return "vendor not found" }

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Status       []string
	CategorySlug string
	County       string
	Limit        int
}

// Repo defines persistence operations for vendors.
type Repo interface {
	List(ctx context.Context, filter ListFilter) ([]Vendor, error)
	GetByID(ctx context.Context, vendorID string) (Vendor, error)
	Create(ctx context.Context, vendor Vendor) error
}
