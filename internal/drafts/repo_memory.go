package drafts

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Draft
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Draft),
		now:  time.Now,
	}
}

// Save stores/overwrites the draft for a key, preserving the original
// CreatedAt when a prior draft exists.
func (r *MemoryRepo) Save(ctx context.Context, key Key, draft Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.data[key.String()]; ok && !prior.Expired(now) {
		draft.CreatedAt = prior.CreatedAt
	} else if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.LastUpdatedAt = now
	draft.ExpiresAt = now.Add(ExpiryWindow)
	// Snapshot the field maps so later caller mutations cannot rewrite
	// the stored draft.
	draft.TemplateFields = cloneFields(draft.TemplateFields)
	draft.SharedFields = cloneFields(draft.SharedFields)
	r.data[key.String()] = draft
	return nil
}

// Load returns the draft for a key, or nil when absent or expired. Expired
// drafts are lazily evicted.
func (r *MemoryRepo) Load(ctx context.Context, key Key) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.data[key.String()]
	if !ok {
		return nil, nil
	}
	if draft.Expired(now) {
		delete(r.data, key.String())
		return nil, nil
	}
	out := draft
	out.TemplateFields = cloneFields(draft.TemplateFields)
	out.SharedFields = cloneFields(draft.SharedFields)
	return &out, nil
}

// Has reports whether a live draft exists for the key.
func (r *MemoryRepo) Has(ctx context.Context, key Key) (bool, error) {
	draft, err := r.Load(ctx, key)
	return draft != nil, err
}

// Clear removes any draft for the key.
func (r *MemoryRepo) Clear(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key.String())
	return nil
}

func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

var _ Repo = (*MemoryRepo)(nil)
