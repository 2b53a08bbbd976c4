// Package errors provides a lightweight structured error type (FlatPagesError)
// for category-based classification in the page cache, CLI and HTTP layer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a flatpages error for classification
type ErrorCategory string

const (
	// Page lookup and content errors
	CategoryPages    ErrorCategory = "pages"
	CategoryEncoding ErrorCategory = "encoding"
	CategoryMetadata ErrorCategory = "metadata"
	CategoryRender   ErrorCategory = "render"

	// Ambient infrastructure errors
	CategoryConfig     ErrorCategory = "config"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// Sentinels for the error conditions callers branch on. Constructors wrap these
// so errors.Is works across the structured type.
var (
	ErrPageNotFound       = errors.New("page not found")
	ErrBadEncoding        = errors.New("content not decodable with configured encoding")
	ErrBadMetadata        = errors.New("metadata block is not valid YAML")
	ErrMissingMetadataKey = errors.New("metadata key not present")
)

// FlatPagesError is a structured error with category, severity, and context
type FlatPagesError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for FlatPagesError
type ContextFields map[string]any

// Error implements the error interface
func (e *FlatPagesError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *FlatPagesError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *FlatPagesError) WithContext(key string, value any) *FlatPagesError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new FlatPagesError
func New(category ErrorCategory, severity ErrorSeverity, message string) *FlatPagesError {
	return &FlatPagesError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new FlatPagesError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *FlatPagesError {
	return &FlatPagesError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var fpe *FlatPagesError
	if errors.As(err, &fpe) {
		return fpe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if no FlatPagesError is in the chain
func GetCategory(err error) ErrorCategory {
	var fpe *FlatPagesError
	if errors.As(err, &fpe) {
		return fpe.Category
	}
	return CategoryInternal
}

// IsNotFound reports whether err signals a missing page.
func IsNotFound(err error) bool { return errors.Is(err, ErrPageNotFound) }

// IsEncoding reports whether err signals undecodable content.
func IsEncoding(err error) bool { return errors.Is(err, ErrBadEncoding) }

// IsMetadata reports whether err signals a malformed metadata block.
func IsMetadata(err error) bool { return errors.Is(err, ErrBadMetadata) }

// IsMissingKey reports whether err signals a metadata lookup for an absent key.
// Distinct from IsNotFound, which is about the page itself.
func IsMissingKey(err error) bool { return errors.Is(err, ErrMissingMetadataKey) }
