package starling

import (
	"errors"
	"fmt"
)

// Sentinel errors for API failure classes callers are expected to branch on.
var (
	// ErrAuthorization indicates the credential was rejected by the API.
	ErrAuthorization = errors.New("starling: authorization rejected")

	// ErrNotFound indicates a referenced remote resource does not exist.
	ErrNotFound = errors.New("starling: resource not found")
)

// APIError is a non-OK HTTP response that is neither an authorization
// failure nor a not-found.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("starling: API error (status %d): %s - %s", e.StatusCode, e.Code, e.Description)
	}
	if e.Code != "" {
		return fmt.Sprintf("starling: API error (status %d): %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("starling: API error (status %d)", e.StatusCode)
}

// ParseError is a response that did not match the expected schema.
// Field carries the path of the offending field.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("starling: malformed response at %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(field string, err error) *ParseError {
	return &ParseError{Field: field, Err: err}
}
