package rfqs

import (
	"context"
	"errors"
	"strings"

	"jengahub-backend/internal/otp"
	"jengahub-backend/internal/users"
)

// AuthMode selects how the buyer establishes an identity at the auth step.
type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
	ModeGuest  AuthMode = "guest"
)

// AuthGate drives the auth step of a Flow for a buyer who arrived without an
// identity. It wraps account creation, login, and the guest path (email plus
// an optional phone verification) and writes the resulting identity back onto
// the flow. The flow's draft survives the gate: cancelling out of any mode
// leaves the buyer's answers where they were.
type AuthGate struct {
	flow  *Flow
	users *users.Service
	otp   *otp.Service

	Mode   AuthMode
	Errors map[string]string

	// Guest phone verification session.
	GuestEmail    string
	pendingPhone  string
	codeSent      bool
	verifiedPhone string
}

// NewAuthGate binds a gate to a flow sitting on its auth step.
func NewAuthGate(flow *Flow, userSvc *users.Service, otpSvc *otp.Service) *AuthGate {
	return &AuthGate{
		flow:   flow,
		users:  userSvc,
		otp:    otpSvc,
		Mode:   ModeGuest,
		Errors: map[string]string{},
	}
}

// SetMode switches between login, signup, and guest. Switching clears field
// errors but keeps any guest phone verification already completed.
func (g *AuthGate) SetMode(mode AuthMode) {
	if mode != ModeLogin && mode != ModeSignup && mode != ModeGuest {
		return
	}
	g.Mode = mode
	g.Errors = map[string]string{}
}

// Login authenticates an existing account and attaches it to the flow.
func (g *AuthGate) Login(ctx context.Context, email, password string) error {
	g.Errors = map[string]string{}
	user, err := g.users.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, users.ErrBadCredentials) {
			g.Errors["email"] = "Invalid email or password"
			return ErrValidation
		}
		return err
	}
	g.flow.SetUser(user.ID)
	return nil
}

// Signup creates an account and attaches it to the flow. The confirmation
// password must match before anything is sent.
func (g *AuthGate) Signup(ctx context.Context, fullName, email, password, confirm string) error {
	g.Errors = map[string]string{}
	if password != confirm {
		g.Errors["confirmPassword"] = "Passwords do not match"
		return ErrValidation
	}
	user, err := g.users.Signup(ctx, email, password, fullName)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			g.Errors["email"] = "This email is already registered"
			return ErrValidation
		case errors.Is(err, users.ErrInvalidInput):
			if !users.ValidEmail(email) {
				g.Errors["email"] = "Enter a valid email address"
			} else {
				g.Errors["password"] = "Password must be at least 6 characters"
			}
			return ErrValidation
		}
		return err
	}
	g.flow.SetUser(user.ID)
	return nil
}

// SendPhoneCode starts (or restarts) guest phone verification. A resend for
// the same number reuses the session; a different number replaces it.
func (g *AuthGate) SendPhoneCode(ctx context.Context, phone string) error {
	delete(g.Errors, "phone")
	delete(g.Errors, "code")
	normalized, err := g.otp.Send(ctx, phone)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidPhone):
			g.Errors["phone"] = "Enter a valid Kenyan phone number"
		case errors.Is(err, otp.ErrRateLimited):
			g.Errors["phone"] = "Too many codes requested, try again later"
		default:
			return err
		}
		return ErrValidation
	}
	g.pendingPhone = normalized
	g.codeSent = true
	g.verifiedPhone = ""
	return nil
}

// VerifyPhoneCode checks the code against the pending verification.
func (g *AuthGate) VerifyPhoneCode(ctx context.Context, code string) error {
	delete(g.Errors, "code")
	if !g.codeSent {
		g.Errors["code"] = "Request a code first"
		return ErrValidation
	}
	phone, err := g.otp.Verify(ctx, g.pendingPhone, code)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrCodeInvalid):
			g.Errors["code"] = "Incorrect code"
		case errors.Is(err, otp.ErrCodeExpired), errors.Is(err, otp.ErrNoChallenge):
			g.Errors["code"] = "Code expired, request a new one"
			g.codeSent = false
		case errors.Is(err, otp.ErrTooManyAttempts):
			g.Errors["code"] = "Too many attempts, request a new code"
			g.codeSent = false
		default:
			return err
		}
		return ErrValidation
	}
	g.verifiedPhone = phone
	return nil
}

// ChangePhone abandons the pending verification so the buyer can enter a
// different number. Any previously verified phone is discarded too.
func (g *AuthGate) ChangePhone() {
	g.pendingPhone = ""
	g.codeSent = false
	g.verifiedPhone = ""
	delete(g.Errors, "code")
}

// PhoneVerified reports whether the guest completed phone verification.
func (g *AuthGate) PhoneVerified() bool { return g.verifiedPhone != "" }

// ContinueAsGuest attaches a guest identity to the flow. Email is required;
// the phone rides along only when it was verified through this gate.
func (g *AuthGate) ContinueAsGuest() error {
	g.Errors = map[string]string{}
	email := strings.TrimSpace(g.GuestEmail)
	if !users.ValidEmail(email) {
		g.Errors["guestEmail"] = "Enter a valid email address"
		return ErrValidation
	}
	g.flow.SetGuest(email, g.verifiedPhone, g.verifiedPhone != "")
	return nil
}

// Cancel backs out of the gate without touching the flow. The draft and every
// answer entered so far stay intact.
func (g *AuthGate) Cancel() {
	g.Errors = map[string]string{}
	g.ChangePhone()
}
