package vendors

import "time"

// Vendor statuses visible to buyers.
const (
	StatusActive   = "active"
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Vendor represents a service provider listed in the directory.
type Vendor struct {
	ID                  string
	UserID              string
	CompanyName         string
	Email               string
	PrimaryCategorySlug string
	SecondaryCategories []string
	County              string
	Town                string
	Description         string
	PriceRange          string
	Rating              float64
	ReviewCount         int
	Verified            bool
	ResponseTimeHours   int
	RFQsCompleted       int
	Status              string
	AvatarURL           string
	CreatedAt           time.Time
}

// Listable reports whether the vendor may appear in buyer-facing lists.
func (v Vendor) Listable() bool {
	return v.Status == StatusActive || v.Status == StatusApproved
}
