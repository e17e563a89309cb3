package users

import (
	"context"
	"errors"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Jane@Example.com", "correct-horse", "Jane Wanjiku")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if !user.HasPassword() {
		t.Fatal("expected password hash to be set")
	}

	got, err := svc.Login(ctx, "jane@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected same user, got %q vs %q", got.ID, user.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "not-an-email", "longenough", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := svc.Signup(ctx, "ok@example.com", "short", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "jane@example.com", "correct-horse", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "JANE@example.com", "another-pass", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "jane@example.com", "correct-horse", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Login(ctx, "jane@example.com", "wrong-horse"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "whatever-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "google:123", Email: "g@example.com"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if _, err := svc.Login(ctx, "g@example.com", ""); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for passwordless account, got %v", err)
	}
}

func TestUpsertFromAuthKeepsPassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user, err := svc.Signup(ctx, "jane@example.com", "correct-horse", "Jane")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// A later token-based login must not wipe the stored password.
	if err := svc.UpsertFromAuth(ctx, User{ID: user.ID, Email: user.Email, FullName: "Jane W."}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if _, err := svc.Login(ctx, "jane@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login after upsert: %v", err)
	}
}
