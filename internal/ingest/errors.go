package ingest

import (
	"errors"
	"fmt"
)

// ErrInvalidTimestamp is wrapped by the ValidationError for an unparsable message.timestamp.
var ErrInvalidTimestamp = errors.New("invalid message.timestamp (expected ISO datetime)")

// ValidationError reports an event the pipeline refused before writing anything.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" || errors.Is(e.Err, ErrInvalidTimestamp) {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
