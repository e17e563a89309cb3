package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. Field maps are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Save upserts the draft for a key, preserving created_at on overwrite.
func (r *PGRepo) Save(ctx context.Context, key Key, draft Draft) error {
	const query = `
INSERT INTO rfq_drafts (
    owner_id, rfq_type, category_slug, job_type_slug,
    template_fields, shared_fields, created_at, last_updated_at, expires_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (owner_id, rfq_type, category_slug, job_type_slug)
DO UPDATE SET
    template_fields = EXCLUDED.template_fields,
    shared_fields = EXCLUDED.shared_fields,
    last_updated_at = EXCLUDED.last_updated_at,
    expires_at = EXCLUDED.expires_at`

	templateJSON, err := marshalFields(draft.TemplateFields)
	if err != nil {
		return err
	}
	sharedJSON, err := marshalFields(draft.SharedFields)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		key.OwnerID,
		key.RFQType,
		key.CategorySlug,
		key.JobTypeSlug,
		templateJSON,
		sharedJSON,
		createdAt,
		now,
		now.Add(ExpiryWindow),
	)
	return err
}

// Load returns the live draft for a key, nil when absent or expired.
func (r *PGRepo) Load(ctx context.Context, key Key) (*Draft, error) {
	const query = `
SELECT template_fields, shared_fields, created_at, last_updated_at, expires_at
FROM rfq_drafts
WHERE owner_id = $1 AND rfq_type = $2 AND category_slug = $3 AND job_type_slug = $4`

	var (
		templateJSON []byte
		sharedJSON   []byte
		draft        Draft
	)
	err := r.DB.QueryRowContext(ctx, query, key.OwnerID, key.RFQType, key.CategorySlug, key.JobTypeSlug).Scan(
		&templateJSON,
		&sharedJSON,
		&draft.CreatedAt,
		&draft.LastUpdatedAt,
		&draft.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if draft.Expired(time.Now().UTC()) {
		_ = r.Clear(ctx, key)
		return nil, nil
	}

	draft.RFQType = key.RFQType
	draft.CategorySlug = key.CategorySlug
	draft.JobTypeSlug = key.JobTypeSlug
	if err := unmarshalFields(templateJSON, &draft.TemplateFields); err != nil {
		return nil, err
	}
	if err := unmarshalFields(sharedJSON, &draft.SharedFields); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Has reports whether a live draft exists for the key.
func (r *PGRepo) Has(ctx context.Context, key Key) (bool, error) {
	draft, err := r.Load(ctx, key)
	return draft != nil, err
}

// Clear deletes the draft for a key.
func (r *PGRepo) Clear(ctx context.Context, key Key) error {
	const query = `
DELETE FROM rfq_drafts
WHERE owner_id = $1 AND rfq_type = $2 AND category_slug = $3 AND job_type_slug = $4`
	_, err := r.DB.ExecContext(ctx, query, key.OwnerID, key.RFQType, key.CategorySlug, key.JobTypeSlug)
	return err
}

func marshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	return json.Marshal(fields)
}

func unmarshalFields(data []byte, target *map[string]any) error {
	if len(data) == 0 {
		*target = map[string]any{}
		return nil
	}
	return json.Unmarshal(data, target)
}

var _ Repo = (*PGRepo)(nil)
