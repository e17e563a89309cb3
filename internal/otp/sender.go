package otp

import (
	"context"

	"jengahub-backend/internal/shared/telemetry"
)

// SMSSender delivers a one-time code to a phone number.
type SMSSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the telemetry log instead of sending SMS.
// Used in development when no SMS gateway is configured.
type LogSender struct{}

func (LogSender) SendCode(ctx context.Context, phone, code string) error {
	telemetry.Info("sms otp code", map[string]any{
		"phone": phone,
		"code":  code,
	})
	return nil
}
