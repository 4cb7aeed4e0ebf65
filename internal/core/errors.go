package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors. ErrNoData covers per-point failures (missing series,
	// lookup beyond the inception tolerance, unresolved or non-positive
	// denominator); valuation recovers from these by dropping the point.
	ErrNoData         = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrSeriesNotFound = &Error{Code: "SERIES_NOT_FOUND", Message: "series not loaded"}

	// Range errors are surfaced to the caller, never absorbed.
	ErrInsufficientRange = &Error{Code: "INSUFFICIENT_RANGE", Message: "not enough observations in range; select a different date range"}
	ErrInvalidPrice      = &Error{Code: "INVALID_PRICE", Message: "invalid price data at range endpoints"}

	// Statistics errors
	ErrStatsUnavailable = &Error{Code: "STATS_UNAVAILABLE", Message: "statistics unavailable; required series not loaded"}

	// Ingestion errors. A failed source is terminal for the session's
	// valuation capability and must not be retried automatically.
	ErrSourceFailed  = &Error{Code: "SOURCE_FAILED", Message: "data source failed to load"}
	ErrTickerInvalid = &Error{Code: "TICKER_INVALID", Message: "invalid ticker symbol"}

	// API errors
	ErrJobNotFound = &Error{Code: "JOB_NOT_FOUND", Message: "job not found or expired"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Insight errors
	ErrInsightFailed   = &Error{Code: "INSIGHT_FAILED", Message: "insight request failed"}
	ErrInsightDisabled = &Error{Code: "INSIGHT_DISABLED", Message: "insight provider not configured"}
)
