package drafts

import "context"

// Repo persists drafts. Load returns (nil, nil) when no live draft exists
// for the key; expired drafts count as absent.
type Repo interface {
	Save(ctx context.Context, key Key, draft Draft) error
	Load(ctx context.Context, key Key) (*Draft, error)
	Has(ctx context.Context, key Key) (bool, error)
	Clear(ctx context.Context, key Key) error
}
