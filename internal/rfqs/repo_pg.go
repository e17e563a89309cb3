package rfqs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres. Field maps and vendor lists are
// stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const rfqColumns = `
id, owner_id, rfq_type, category_slug, job_type_slug, template_fields,
shared_fields, reference_images, selected_vendors, allow_other_vendors,
visibility, response_cap, guest_email, guest_phone, guest_phone_verified,
status, created_at`

func (r *PGRepo) Create(ctx context.Context, rfq RFQ) error {
	const query = `
INSERT INTO rfqs (
    id, owner_id, rfq_type, category_slug, job_type_slug, template_fields,
    shared_fields, reference_images, selected_vendors, allow_other_vendors,
    visibility, response_cap, guest_email, guest_phone, guest_phone_verified,
    status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	templateFields, err := json.Marshal(rfq.TemplateFields)
	if err != nil {
		return err
	}
	sharedFields, err := json.Marshal(rfq.SharedFields)
	if err != nil {
		return err
	}
	images, err := json.Marshal(rfq.ReferenceImages)
	if err != nil {
		return err
	}
	vendors, err := json.Marshal(rfq.SelectedVendors)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		rfq.ID,
		rfq.OwnerID,
		rfq.RFQType,
		rfq.CategorySlug,
		nullableString(rfq.JobTypeSlug),
		templateFields,
		sharedFields,
		images,
		vendors,
		rfq.AllowOtherVendors,
		nullableString(rfq.Visibility),
		rfq.ResponseCap,
		nullableString(rfq.GuestEmail),
		nullableString(rfq.GuestPhone),
		rfq.GuestPhoneVerified,
		rfq.Status,
		rfq.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, rfqID string) (RFQ, error) {
	query := "SELECT " + rfqColumns + " FROM rfqs WHERE id = $1 LIMIT 1"
	rfq, err := scanRFQ(r.DB.QueryRowContext(ctx, query, rfqID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RFQ{}, ErrNotFound
		}
		return RFQ{}, err
	}
	return rfq, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]RFQ, error) {
	query := "SELECT " + rfqColumns + ` FROM rfqs
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RFQ
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rfq)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, rfqID, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE rfqs SET status = $1 WHERE id = $2`, status, rfqID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) AddAssignments(ctx context.Context, assignments []Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	const query = `
INSERT INTO rfq_vendors (rfq_id, vendor_id, match_score, match_reason, assigned_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (rfq_id, vendor_id) DO NOTHING`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	for _, a := range assignments {
		if _, err = tx.ExecContext(ctx, query, a.RFQID, a.VendorID, a.MatchScore, nullableString(a.MatchReason), a.AssignedAt); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

func (r *PGRepo) ListAssignments(ctx context.Context, rfqID string) ([]Assignment, error) {
	const query = `
SELECT rfq_id, vendor_id, match_score, match_reason, assigned_at
FROM rfq_vendors WHERE rfq_id = $1 ORDER BY match_score DESC`
	rows, err := r.DB.QueryContext(ctx, query, rfqID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		var reason sql.NullString
		if err := rows.Scan(&a.RFQID, &a.VendorID, &a.MatchScore, &reason, &a.AssignedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			a.MatchReason = reason.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanRFQ(row scanner) (RFQ, error) {
	var (
		rfq            RFQ
		jobType        sql.NullString
		templateFields []byte
		sharedFields   []byte
		images         []byte
		vendors        []byte
		visibility     sql.NullString
		guestEmail     sql.NullString
		guestPhone     sql.NullString
	)
	err := row.Scan(
		&rfq.ID,
		&rfq.OwnerID,
		&rfq.RFQType,
		&rfq.CategorySlug,
		&jobType,
		&templateFields,
		&sharedFields,
		&images,
		&vendors,
		&rfq.AllowOtherVendors,
		&visibility,
		&rfq.ResponseCap,
		&guestEmail,
		&guestPhone,
		&rfq.GuestPhoneVerified,
		&rfq.Status,
		&rfq.CreatedAt,
	)
	if err != nil {
		return RFQ{}, err
	}
	if jobType.Valid {
		rfq.JobTypeSlug = jobType.String
	}
	if visibility.Valid {
		rfq.Visibility = visibility.String
	}
	if guestEmail.Valid {
		rfq.GuestEmail = guestEmail.String
	}
	if guestPhone.Valid {
		rfq.GuestPhone = guestPhone.String
	}
	if len(templateFields) > 0 {
		if err := json.Unmarshal(templateFields, &rfq.TemplateFields); err != nil {
			return RFQ{}, err
		}
	}
	if len(sharedFields) > 0 {
		if err := json.Unmarshal(sharedFields, &rfq.SharedFields); err != nil {
			return RFQ{}, err
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &rfq.ReferenceImages); err != nil {
			return RFQ{}, err
		}
	}
	if len(vendors) > 0 {
		if err := json.Unmarshal(vendors, &rfq.SelectedVendors); err != nil {
			return RFQ{}, err
		}
	}
	return rfq, nil
}

// ClaimGuest reassigns every RFQ owned by guestUserID to authedUserID and
// returns how many were moved.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rfqs SET owner_id = $1 WHERE owner_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	count, _ := res.RowsAffected()
	return int(count), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
