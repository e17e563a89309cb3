package messages

import "errors"

var (
	// ErrNotFound indicates the message does not exist.
	ErrNotFound = errNotFound{}

	// ErrInvalidInput indicates a message that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller is not a participant of the RFQ's
	// conversation.
	ErrForbidden = errors.New("not a conversation participant")
)

type errNotFound struct{}

func (errNotFound) Error() string { return "message not found" }
