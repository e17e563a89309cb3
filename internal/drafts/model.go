package drafts

import (
	"fmt"
	"strings"
	"time"
)

// Expiry window after which a saved draft is treated as absent.
const ExpiryWindow = 48 * time.Hour

// Key identifies one draft slot. Only one draft exists per key at a time;
// saving overwrites.
type Key struct {
	OwnerID      string
	RFQType      string
	CategorySlug string
	JobTypeSlug  string
}

// Valid reports whether all key components are present.
func (k Key) Valid() bool {
	return strings.TrimSpace(k.OwnerID) != "" &&
		strings.TrimSpace(k.RFQType) != "" &&
		strings.TrimSpace(k.CategorySlug) != "" &&
		strings.TrimSpace(k.JobTypeSlug) != ""
}

// String renders the storage key, mirroring the draft slot format
// rfq_draft_{rfqType}_{categorySlug}_{jobTypeSlug} scoped by owner.
func (k Key) String() string {
	return fmt.Sprintf("rfq_draft_%s_%s_%s_%s", k.OwnerID, k.RFQType, k.CategorySlug, k.JobTypeSlug)
}

// Draft is the persisted, resumable state of one in-progress RFQ. The
// current step is intentionally absent: it is re-derived on resume.
type Draft struct {
	RFQType        string         `json:"rfqType"`
	CategorySlug   string         `json:"categorySlug"`
	JobTypeSlug    string         `json:"jobTypeSlug"`
	TemplateFields map[string]any `json:"templateFields"`
	SharedFields   map[string]any `json:"sharedFields"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastUpdatedAt  time.Time      `json:"lastUpdatedAt"`
	ExpiresAt      time.Time      `json:"expiresAt"`
}

// Expired reports whether the draft has aged out.
func (d Draft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && now.After(d.ExpiresAt)
}
