package rfqs

import (
	"context"
	"errors"
	"testing"

	"jengahub-backend/internal/otp"
	"jengahub-backend/internal/users"
)

type codeCapture struct {
	phone string
	code  string
}

func (c *codeCapture) SendCode(ctx context.Context, phone, code string) error {
	c.phone = phone
	c.code = code
	return nil
}

type gateFixture struct {
	flow   *Flow
	gate   *AuthGate
	users  *users.Service
	sender *codeCapture
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	flow, _, _ := newTestFlow(t, FlowConfig{RFQType: TypeWizard})
	sender := &codeCapture{}
	userSvc := users.NewService(users.NewMemoryRepo())
	gate := NewAuthGate(flow, userSvc, otp.NewService(sender))
	return &gateFixture{flow: flow, gate: gate, users: userSvc, sender: sender}
}

func TestAuthGateSignupAttachesUser(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if err := f.gate.Signup(ctx, "Wanjiku", "wanjiku@example.com", "hunter22", "hunter22"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if f.flow.UserID == "" {
		t.Fatal("flow has no user after signup")
	}
}

func TestAuthGateSignupPasswordMismatch(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	err := f.gate.Signup(ctx, "Wanjiku", "wanjiku@example.com", "hunter22", "hunter23")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if f.gate.Errors["confirmPassword"] != "Passwords do not match" {
		t.Fatalf("errors = %v", f.gate.Errors)
	}
	if f.flow.UserID != "" {
		t.Fatal("mismatched confirm must not create an account")
	}
}

func TestAuthGateSignupDuplicateEmail(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if _, err := f.users.Signup(ctx, "wanjiku@example.com", "hunter22", "Wanjiku"); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	err := f.gate.Signup(ctx, "Other", "Wanjiku@Example.com", "hunter22", "hunter22")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, ok := f.gate.Errors["email"]; !ok {
		t.Fatalf("errors = %v, want email error", f.gate.Errors)
	}
}

func TestAuthGateLogin(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	seeded, err := f.users.Signup(ctx, "wanjiku@example.com", "hunter22", "Wanjiku")
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	if err := f.gate.Login(ctx, "wanjiku@example.com", "wrong-pass"); !errors.Is(err, ErrValidation) {
		t.Fatalf("wrong password err = %v, want ErrValidation", err)
	}
	if f.flow.UserID != "" {
		t.Fatal("failed login must not attach a user")
	}

	if err := f.gate.Login(ctx, "wanjiku@example.com", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if f.flow.UserID != seeded.ID {
		t.Fatalf("flow user = %q, want %q", f.flow.UserID, seeded.ID)
	}
}

func TestAuthGateGuestWithVerifiedPhone(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if err := f.gate.SendPhoneCode(ctx, "0712345678"); err != nil {
		t.Fatalf("SendPhoneCode: %v", err)
	}
	if f.sender.phone != "+254712345678" {
		t.Fatalf("sent to %q, want normalized +254712345678", f.sender.phone)
	}

	if err := f.gate.VerifyPhoneCode(ctx, f.sender.code); err != nil {
		t.Fatalf("VerifyPhoneCode: %v", err)
	}
	if !f.gate.PhoneVerified() {
		t.Fatal("phone not marked verified")
	}

	f.gate.GuestEmail = "guest@example.com"
	if err := f.gate.ContinueAsGuest(); err != nil {
		t.Fatalf("ContinueAsGuest: %v", err)
	}
	if f.flow.GuestEmail != "guest@example.com" {
		t.Fatalf("flow guest email = %q", f.flow.GuestEmail)
	}
	if f.flow.GuestPhone != "+254712345678" || !f.flow.GuestPhoneVerified {
		t.Fatalf("flow phone = %q verified=%v", f.flow.GuestPhone, f.flow.GuestPhoneVerified)
	}
}

func TestAuthGateGuestRequiresValidEmail(t *testing.T) {
	f := newGateFixture(t)

	f.gate.GuestEmail = "not-an-email"
	if err := f.gate.ContinueAsGuest(); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, ok := f.gate.Errors["guestEmail"]; !ok {
		t.Fatalf("errors = %v, want guestEmail error", f.gate.Errors)
	}
}

func TestAuthGateWrongCodeThenInvalidPhone(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if err := f.gate.SendPhoneCode(ctx, "0712345678"); err != nil {
		t.Fatalf("SendPhoneCode: %v", err)
	}

	wrong := "000000"
	if wrong == f.sender.code {
		wrong = "000001"
	}
	if err := f.gate.VerifyPhoneCode(ctx, wrong); !errors.Is(err, ErrValidation) {
		t.Fatalf("wrong code err = %v, want ErrValidation", err)
	}
	if f.gate.Errors["code"] != "Incorrect code" {
		t.Fatalf("errors = %v", f.gate.Errors)
	}

	if err := f.gate.SendPhoneCode(ctx, "12345"); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad phone err = %v, want ErrValidation", err)
	}
	if _, ok := f.gate.Errors["phone"]; !ok {
		t.Fatalf("errors = %v, want phone error", f.gate.Errors)
	}
}

func TestAuthGateChangePhoneDiscardsSession(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if err := f.gate.SendPhoneCode(ctx, "0712345678"); err != nil {
		t.Fatalf("SendPhoneCode: %v", err)
	}
	code := f.sender.code
	f.gate.ChangePhone()

	if err := f.gate.VerifyPhoneCode(ctx, code); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation after ChangePhone", err)
	}
	if f.gate.Errors["code"] != "Request a code first" {
		t.Fatalf("errors = %v", f.gate.Errors)
	}
}

func TestAuthGateCancelPreservesFlowState(t *testing.T) {
	flow, _, _ := newTestFlow(t, FlowConfig{RFQType: TypeWizard})
	if !flow.SelectCategory("plumbing_drainage") {
		t.Fatal("SelectCategory failed")
	}
	fillValidPlumbing(flow)

	sender := &codeCapture{}
	gate := NewAuthGate(flow, users.NewService(users.NewMemoryRepo()), otp.NewService(sender))
	gate.GuestEmail = "half-typed"
	gate.Cancel()

	if flow.SharedFields["projectTitle"] != "Fix kitchen leak" {
		t.Fatal("cancelling the gate must not touch flow answers")
	}
	if flow.UserID != "" || flow.GuestEmail != "" {
		t.Fatal("cancelling the gate must not attach an identity")
	}
}
