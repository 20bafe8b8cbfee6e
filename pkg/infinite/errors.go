package infinite

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is used when a failed response carries no message.
const DefaultFailureMessage = "No message from API."

var (
	// ErrValidation is returned when an argument is rejected before any
	// request is made.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyResponse is returned by the resolve helpers for an empty envelope.
	ErrEmptyResponse = errors.New("api response is empty")

	// ErrMissingData is returned when an envelope has no data key.
	ErrMissingData = errors.New("api response does not contain a data object")

	// ErrMissingID is returned when the data object carries no _id.
	ErrMissingID = errors.New("data object does not contain an ID")
)

// LogicalFailureError is returned when the HTTP call succeeded but the
// envelope reports response.success == false.
type LogicalFailureError struct {
	Message  string
	Envelope *Envelope
}

func (e *LogicalFailureError) Error() string {
	return e.Message
}

// TransportError wraps a network or HTTP-level failure.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsLogicalFailure reports whether err is (or wraps) a LogicalFailureError.
func IsLogicalFailure(err error) bool {
	var lf *LogicalFailureError
	return errors.As(err, &lf)
}

// ValidationError tags err with ErrValidation while keeping it unwrappable.
func ValidationError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
}
