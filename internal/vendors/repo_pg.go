package vendors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres. Secondary categories are stored as
// a JSONB array of slugs.
type PGRepo struct {
	DB *sql.DB
}

const vendorColumns = `
id, user_id, company_name, email, primary_category_slug, secondary_categories,
county, town, description, price_range, rating, review_count, verified,
response_time_hours, rfqs_completed, status, avatar_url, created_at`

// Create inserts a vendor.
func (r *PGRepo) Create(ctx context.Context, vendor Vendor) error {
	const query = `
INSERT INTO vendors (
    id, user_id, company_name, email, primary_category_slug, secondary_categories,
    county, town, description, price_range, rating, review_count, verified,
    response_time_hours, rfqs_completed, status, avatar_url, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	secondary, err := json.Marshal(vendor.SecondaryCategories)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		vendor.ID,
		vendor.UserID,
		vendor.CompanyName,
		vendor.Email,
		vendor.PrimaryCategorySlug,
		secondary,
		vendor.County,
		vendor.Town,
		vendor.Description,
		vendor.PriceRange,
		vendor.Rating,
		vendor.ReviewCount,
		vendor.Verified,
		vendor.ResponseTimeHours,
		vendor.RFQsCompleted,
		vendor.Status,
		vendor.AvatarURL,
		vendor.CreatedAt,
	)
	return err
}

// List returns vendors matching the filter ordered by rating descending.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Vendor, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, 0, len(filter.Status))
		for _, s := range filter.Status {
			placeholders = append(placeholders, arg(s))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.CategorySlug != "" {
		p := arg(filter.CategorySlug)
		conds = append(conds, fmt.Sprintf("(primary_category_slug = %s OR secondary_categories @> to_jsonb(ARRAY[%s]))", p, p))
	}
	if filter.County != "" {
		conds = append(conds, fmt.Sprintf("LOWER(county) = LOWER(%s)", arg(filter.County)))
	}

	query := "SELECT " + vendorColumns + " FROM vendors"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rating DESC, created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vendor)
	}
	return out, rows.Err()
}

// GetByID returns a vendor by ID.
func (r *PGRepo) GetByID(ctx context.Context, vendorID string) (Vendor, error) {
	query := "SELECT " + vendorColumns + " FROM vendors WHERE id = $1 LIMIT 1"
	row := r.DB.QueryRowContext(ctx, query, vendorID)
	vendor, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vendor{}, ErrNotFound
		}
		return Vendor{}, err
	}
	return vendor, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVendor(row scanner) (Vendor, error) {
	var (
		vendor    Vendor
		secondary []byte
		town      sql.NullString
		desc      sql.NullString
		price     sql.NullString
		avatar    sql.NullString
	)
	err := row.Scan(
		&vendor.ID,
		&vendor.UserID,
		&vendor.CompanyName,
		&vendor.Email,
		&vendor.PrimaryCategorySlug,
		&secondary,
		&vendor.County,
		&town,
		&desc,
		&price,
		&vendor.Rating,
		&vendor.ReviewCount,
		&vendor.Verified,
		&vendor.ResponseTimeHours,
		&vendor.RFQsCompleted,
		&vendor.Status,
		&avatar,
		&vendor.CreatedAt,
	)
	if err != nil {
		return Vendor{}, err
	}
	if len(secondary) > 0 {
		if err := json.Unmarshal(secondary, &vendor.SecondaryCategories); err != nil {
			return Vendor{}, err
		}
	}
	if town.Valid {
		vendor.Town = town.String
	}
	if desc.Valid {
		vendor.Description = desc.String
	}
	if price.Valid {
		vendor.PriceRange = price.String
	}
	if avatar.Valid {
		vendor.AvatarURL = avatar.String
	}
	return vendor, nil
}

var _ Repo = (*PGRepo)(nil)
