package messages

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used in dev and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	messages map[string]Message
	order    []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{messages: make(map[string]Message)}
}

func (r *MemoryRepo) Create(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.messages[msg.ID]; !exists {
		r.order = append(r.order, msg.ID)
	}
	r.messages[msg.ID] = msg
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, messageID string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[messageID]
	if !ok {
		return Message{}, ErrNotFound
	}
	return msg, nil
}

// ListByRFQ returns the RFQ's messages oldest first, so a conversation renders
// top to bottom.
func (r *MemoryRepo) ListByRFQ(ctx context.Context, rfqID string, limit, offset int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var thread []Message
	for _, id := range r.order {
		if msg := r.messages[id]; msg.RFQID == rfqID {
			thread = append(thread, msg)
		}
	}
	if offset >= len(thread) {
		return []Message{}, nil
	}
	thread = thread[offset:]
	if limit > 0 && len(thread) > limit {
		thread = thread[:limit]
	}
	out := make([]Message, len(thread))
	copy(out, thread)
	return out, nil
}

func (r *MemoryRepo) MarkRead(ctx context.Context, recipientID, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[messageID]
	if !ok || msg.RecipientID != recipientID {
		return ErrNotFound
	}
	msg.Read = true
	r.messages[messageID] = msg
	return nil
}
