package rfqs

import "time"

// RFQ types. Direct and vendor-request both target known vendors but keep
// distinct step rules: vendor-request has exactly one implicit recipient.
const (
	TypeDirect        = "direct"
	TypeWizard        = "wizard"
	TypePublic        = "public"
	TypeVendorRequest = "vendor-request"
)

// RFQ statuses.
const (
	StatusPending          = "pending"
	StatusMatched          = "matched"
	StatusNeedsAdminReview = "needs_admin_review"
)

// Public RFQ visibility scopes.
const (
	VisibilityCategory = "category"
	VisibilityCounty   = "county"
	VisibilityState    = "state"
	VisibilityNational = "national"
)

// ValidType reports whether t is a known RFQ type.
func ValidType(t string) bool {
	switch t {
	case TypeDirect, TypeWizard, TypePublic, TypeVendorRequest:
		return true
	}
	return false
}

// ReferenceImage describes an uploaded project photo.
type ReferenceImage struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// RFQ is a submitted request for quotation.
type RFQ struct {
	ID              string
	OwnerID         string
	RFQType         string
	CategorySlug    string
	JobTypeSlug     string
	TemplateFields  map[string]any
	SharedFields    map[string]any
	ReferenceImages []ReferenceImage

	// Recipient selection. SelectedVendors applies to direct, wizard, and
	// vendor-request. AllowOtherVendors applies to wizard only.
	SelectedVendors   []string
	AllowOtherVendors bool

	// Public RFQ scope.
	Visibility  string
	ResponseCap int

	GuestEmail         string
	GuestPhone         string
	GuestPhoneVerified bool

	Status    string
	CreatedAt time.Time
}

// Assignment links an RFQ to a vendor chosen for it.
type Assignment struct {
	RFQID       string
	VendorID    string
	MatchScore  int
	MatchReason string
	AssignedAt  time.Time
}
