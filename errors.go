package optkit

import (
	"errors"
	"fmt"
)

// Error codes for parse-time failures.
const (
	ErrCodeUnknownArgument  = "unknown_argument"
	ErrCodeUnexpectedValue  = "unexpected_value"
	ErrCodeConstraint       = "constraint"
	ErrCodeMultiConstraint  = "multi_constraint"
	ErrCodeConversion       = "conversion"
	ErrCodeMissingMandatory = "missing_mandatory"
)

// Registration errors. They describe programmer mistakes and are returned
// before any token is read.
var (
	// ErrModeMismatch is returned when tagless and tagged options are mixed.
	ErrModeMismatch = errors.New("optkit: tagless options cannot be combined with tagged options")

	// ErrPrioritizationMismatch is returned when a tagless option is prioritized.
	ErrPrioritizationMismatch = errors.New("optkit: tagless options cannot be prioritized")

	// ErrDuplicateKey is returned when a key or alias is already registered.
	ErrDuplicateKey = errors.New("optkit: key already registered")

	// ErrEmptyKey is returned when a tagged option is registered without a key.
	ErrEmptyKey = errors.New("optkit: option key is empty")

	// ErrForeignOption is returned when an option registered by another Cli is passed in.
	ErrForeignOption = errors.New("optkit: option belongs to another Cli")

	// ErrTooFewOptions is returned when a relation is declared over fewer than two options.
	ErrTooFewOptions = errors.New("optkit: a relation needs at least two options")

	// ErrAlreadyParsed is returned when registering after Parse has run.
	ErrAlreadyParsed = errors.New("optkit: arguments already parsed")

	// ErrNotDispatching is returned by Defer when no callback is running.
	ErrNotDispatching = errors.New("optkit: Defer called outside a callback")

	// ErrUnknownKey is returned by typed lookups for keys that were never registered.
	ErrUnknownKey = errors.New("optkit: unknown option key")
)

// ErrShortCircuit is returned by Parse when a prioritized option (such as
// --help) was present: its callbacks ran and every other check was skipped.
// Callers should treat it as a request to exit successfully.
var ErrShortCircuit = errors.New("optkit: priority option present")

// ParseError is a fatal parse-time failure.
type ParseError struct {
	Code    string // Error code (e.g., "unknown_argument")
	Key     string // Primary key of the option involved, if any
	Value   string // Offending token or value, if any
	Message string // Human-readable description
	Err     error  // Underlying cause (e.g., a strconv error)
}

// Error formats the failure as a single line.
func (e *ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("argument parsing failed: %s (%s)", e.Code, e.Message)
	}
	return fmt.Sprintf("argument parsing failed: %s: %s (%s)", e.Key, e.Code, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func unknownArgument(token string) *ParseError {
	return &ParseError{
		Code:    ErrCodeUnknownArgument,
		Value:   token,
		Message: fmt.Sprintf("given value '%s' is not expected", token),
	}
}

func unexpectedValue(o *Option, token string) *ParseError {
	return &ParseError{
		Code:    ErrCodeUnexpectedValue,
		Key:     o.key,
		Value:   token,
		Message: fmt.Sprintf("expected at most %d value(s), '%s' is not expected", o.maxValues, token),
	}
}

func conversionError(o *Option, raw string, err error) *ParseError {
	return &ParseError{
		Code:    ErrCodeConversion,
		Key:     o.key,
		Value:   raw,
		Message: fmt.Sprintf("cannot convert %q: %v", raw, err),
		Err:     err,
	}
}

func missingMandatory(o *Option) *ParseError {
	return &ParseError{
		Code:    ErrCodeMissingMandatory,
		Key:     o.key,
		Message: fmt.Sprintf("%s is a required parameter", o.usage()),
	}
}

func constraintViolation(o *Option, c Constraint) *ParseError {
	return &ParseError{
		Code:    ErrCodeConstraint,
		Key:     o.key,
		Value:   o.Value(),
		Message: fmt.Sprintf("%s, got '%s'", c.What(), o.Value()),
	}
}

func multiConstraintViolation(key string, err error) *ParseError {
	return &ParseError{
		Code:    ErrCodeMultiConstraint,
		Key:     key,
		Message: err.Error(),
		Err:     err,
	}
}
