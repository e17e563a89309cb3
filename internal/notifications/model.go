package notifications

import "time"

// Notification kinds.
const (
	TypeRFQReceived  = "rfq_received"
	TypeRFQMatched   = "rfq_matched"
	TypeAdminReview  = "admin_review"
	TypeQuoteArrived = "quote_arrived"
	TypeMessage      = "message"
)

// Notification is a per-user inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RFQID     string    `json:"rfqId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
