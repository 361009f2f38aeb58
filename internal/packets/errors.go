package packets

import "errors"

var (
	// ErrNotApproved rejects lifted/hold edits on a packet that is not approved.
	ErrNotApproved = errors.New("packet is not approved")
	// ErrNoInvoice is returned when a packet has no invoice to download.
	ErrNoInvoice = errors.New("packet has no invoice")
	// ErrTooManyImages is wrapped by the validation error AddImage returns at
	// the image limit.
	ErrTooManyImages = errors.New("too many images")
)

// ValidationError is a client side check that blocked a request. Title and
// Message are shown to the user as is.
type ValidationError struct {
	Title   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Title == "" {
		return e.Message
	}
	return e.Title + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

func validationError(title, message string) *ValidationError {
	return &ValidationError{Title: title, Message: message}
}
