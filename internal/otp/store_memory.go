package otp

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge // keyed by phone
	sendLog    map[string][]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		challenges: make(map[string]Challenge),
		sendLog:    make(map[string][]time.Time),
	}
}

func (s *memoryStore) Save(ctx context.Context, ch Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[ch.Phone] = ch
	return nil
}

func (s *memoryStore) GetByPhone(ctx context.Context, phone string) (Challenge, error) {
	if err := ctx.Err(); err != nil {
		return Challenge{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[phone]
	if !ok {
		return Challenge{}, ErrNoChallenge
	}
	return ch, nil
}

func (s *memoryStore) Delete(ctx context.Context, phone string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, phone)
	return nil
}

func (s *memoryStore) RecordSend(ctx context.Context, phone string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLog[phone] = append(s.sendLog[phone], at)
	return nil
}

func (s *memoryStore) CountSendsSince(ctx context.Context, phone string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sendLog[phone][:0]
	for _, at := range s.sendLog[phone] {
		if at.After(since) {
			kept = append(kept, at)
		}
	}
	s.sendLog[phone] = kept
	return len(kept), nil
}
