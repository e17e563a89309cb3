package rfqs

import "errors"

var (
	// ErrNotFound indicates the RFQ does not exist.
	ErrNotFound = errNotFound{}

	// ErrInvalidInput indicates a submission that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuotaExceeded maps to HTTP 402: the monthly RFQ allowance is spent.
	ErrQuotaExceeded = errors.New("monthly rfq limit exceeded")

	// ErrRateLimited maps to HTTP 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrSubmitInFlight indicates a second submit while one is outstanding.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrValidation indicates field errors were recorded on the flow.
	ErrValidation = errors.New("validation failed")

	// ErrFlowClosed indicates the flow was closed and ignores further input.
	ErrFlowClosed = errors.New("flow closed")
)

type errNotFound struct{}

func (errNotFound) Error() string { return "rfq not found" }
