package sla

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a request validation failure. None are retryable.
type ErrorKind string

// ErrorKind values.
const (
	KindAmbiguousDurationBudget  ErrorKind = "AmbiguousDurationBudget"
	KindMissingDurationBudget    ErrorKind = "MissingDurationBudget"
	KindInvalidDurationBudget    ErrorKind = "InvalidDurationBudget"
	KindInvalidExcludedDateList  ErrorKind = "InvalidExcludedDateList"
	KindInvalidExcludedDate      ErrorKind = "InvalidExcludedDate"
	KindInvalidStartTime         ErrorKind = "InvalidStartTime"
	KindInvalidTimeZone          ErrorKind = "InvalidTimeZone"
	KindInvalidBusinessHours     ErrorKind = "InvalidBusinessHours"
	KindUnsupportedHolidayLocale ErrorKind = "UnsupportedHolidayLocale"
)

// ValidationError is returned for any request that cannot be calculated.
// Value holds the offending literal when there is one.
type ValidationError struct {
	Kind   ErrorKind
	Detail string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches any *ValidationError of the same kind, so the Err* sentinels
// below work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrAmbiguousDurationBudget  = &ValidationError{Kind: KindAmbiguousDurationBudget}
	ErrMissingDurationBudget    = &ValidationError{Kind: KindMissingDurationBudget}
	ErrInvalidDurationBudget    = &ValidationError{Kind: KindInvalidDurationBudget}
	ErrInvalidExcludedDateList  = &ValidationError{Kind: KindInvalidExcludedDateList}
	ErrInvalidExcludedDate      = &ValidationError{Kind: KindInvalidExcludedDate}
	ErrInvalidStartTime         = &ValidationError{Kind: KindInvalidStartTime}
	ErrInvalidTimeZone          = &ValidationError{Kind: KindInvalidTimeZone}
	ErrInvalidBusinessHours     = &ValidationError{Kind: KindInvalidBusinessHours}
	ErrUnsupportedHolidayLocale = &ValidationError{Kind: KindUnsupportedHolidayLocale}
)

// ErrIterationLimitExceeded guards the engine loop against runaway input.
var ErrIterationLimitExceeded = errors.New("iteration limit exceeded")

func invalid(kind ErrorKind, value string, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Value: value, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a validation error anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
