package users

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken indicates the email already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBadCredentials indicates a failed login.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrInvalidInput indicates signup input that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether the address looks like a deliverable email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Signup creates an email+password account and returns the new user.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return User{}, ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return User{}, ErrInvalidInput
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	salt, err := newSalt()
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           "user:" + uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashPassword(password, salt),
		PasswordSalt: salt,
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies email+password and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrBadCredentials
		}
		return User{}, err
	}
	if !user.HasPassword() {
		return User{}, ErrBadCredentials
	}
	if !hmac.Equal([]byte(hashPassword(password, user.PasswordSalt)), []byte(user.PasswordHash)) {
		return User{}, ErrBadCredentials
	}
	return user, nil
}

// UpsertFromAuth persists an externally authenticated identity so RFQ and
// quota ownership stays stable across logins.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(user.Email) == "" && strings.TrimSpace(user.Phone) == "" {
		return errors.New("email or phone is required")
	}
	existing, err := s.Repo.GetByID(ctx, user.ID)
	if err == nil {
		// Never drop an existing password on re-login.
		user.PasswordHash = existing.PasswordHash
		user.PasswordSalt = existing.PasswordSalt
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}
