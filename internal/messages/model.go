package messages

import "time"

// Attachment is a file stored alongside a message, typically a photo or a
// quotation document.
type Attachment struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
	StorageKey string `json:"-"`
}

// Message is one entry in the buyer-vendor conversation attached to an RFQ.
type Message struct {
	ID          string      `json:"messageId"`
	RFQID       string      `json:"rfqId"`
	SenderID    string      `json:"senderId"`
	RecipientID string      `json:"recipientId"`
	Body        string      `json:"body"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	Read        bool        `json:"read"`
	CreatedAt   time.Time   `json:"createdAt"`
}
