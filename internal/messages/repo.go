package messages

import "context"

// Repo persists conversation messages.
type Repo interface {
	Create(ctx context.Context, msg Message) error
	GetByID(ctx context.Context, messageID string) (Message, error)
	ListByRFQ(ctx context.Context, rfqID string, limit, offset int) ([]Message, error)
	MarkRead(ctx context.Context, recipientID, messageID string) error
}
