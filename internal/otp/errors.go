package otp

import "errors"

var (
	// ErrInvalidPhone indicates the phone number is not a valid Kenyan number.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrRateLimited indicates too many codes were requested for this phone.
	ErrRateLimited = errors.New("too many codes requested")

	// ErrCodeInvalid indicates the supplied code does not match.
	ErrCodeInvalid = errors.New("invalid code")

	// ErrCodeExpired indicates the code is past its validity window.
	ErrCodeExpired = errors.New("code expired")

	// ErrTooManyAttempts indicates the challenge was locked after repeated
	// wrong codes. A new code must be requested.
	ErrTooManyAttempts = errors.New("too many attempts")

	// ErrNoChallenge indicates no code was sent to this phone.
	ErrNoChallenge = errors.New("no pending code for phone")
)
