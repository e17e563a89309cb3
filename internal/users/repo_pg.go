package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, phone, full_name, picture_url, password_hash, password_salt, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  password_hash = EXCLUDED.password_hash,
  password_salt = EXCLUDED.password_salt,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.Phone),
		nullableString(user.FullName),
		nullableString(user.PictureURL),
		nullableString(user.PasswordHash),
		nullableString(user.PasswordSalt),
	)
	return err
}

const userColumns = `
id, email, phone, full_name, picture_url, password_hash, password_salt, created_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1 LIMIT 1"
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1"
	return r.getOne(ctx, query, email)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	var phone sql.NullString
	var fullName sql.NullString
	var pictureURL sql.NullString
	var passwordHash sql.NullString
	var passwordSalt sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&phone,
		&fullName,
		&pictureURL,
		&passwordHash,
		&passwordSalt,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if phone.Valid {
		user.Phone = phone.String
	}
	if fullName.Valid {
		user.FullName = fullName.String
	}
	if pictureURL.Valid {
		user.PictureURL = pictureURL.String
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if passwordSalt.Valid {
		user.PasswordSalt = passwordSalt.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
