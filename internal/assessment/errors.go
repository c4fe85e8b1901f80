package assessment

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrComputation = errors.New("computation failed")
)

// ValidationError describes a single invalid or missing field of a ClientRecord.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrors flattens err into the field errors it carries.
// Returns nil if err holds no ValidationError.
func ValidationErrors(err error) []*ValidationError {
	var fieldErrs []*ValidationError
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if errors.As(e, &ve) {
			fieldErrs = append(fieldErrs, ve)
		}
	}
	return fieldErrs
}

func computationError(metric string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrComputation, metric, err)
}
