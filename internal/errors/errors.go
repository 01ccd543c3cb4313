// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrPriceUnavailable  = errors.New("no price available")
	ErrSectionNotFound   = errors.New("section not found")
	ErrNoData            = errors.New("no data")
	ErrTimeout           = errors.New("operation timed out")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrInputValidation   = errors.New("input validation failed")
)

// FetchError represents a failed page fetch for one symbol.
type FetchError struct {
	Site       string
	Symbol     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch error [%s] %s: status %d", e.Site, e.Symbol, e.StatusCode)
	}
	return fmt.Sprintf("fetch error [%s] %s: %v", e.Site, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(site, symbol string, statusCode int, err error) *FetchError {
	return &FetchError{
		Site:       site,
		Symbol:     symbol,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ParseError represents a failed field extraction. Extraction failures are
// per-field and per-symbol; they never abort a batch.
type ParseError struct {
	Field  string
	Symbol string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error [%s] %s: %v", e.Field, e.Symbol, e.Err)
	}
	return fmt.Sprintf("parse error [%s] %s", e.Field, e.Symbol)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(field, symbol string, err error) *ParseError {
	return &ParseError{Field: field, Symbol: symbol, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
