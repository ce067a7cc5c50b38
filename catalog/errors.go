package catalog

import (
	"errors"
	"fmt"
)

// Common errors, matched through errors.Is against the typed errors below.
var (
	// ErrUnauthorized indicates the server rejected the credentials or the session token
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")
)

// AuthError is returned on HTTP 401 and on rejected login attempts
type AuthError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unauthorized: status %d", e.StatusCode)
	}
	return fmt.Sprintf("unauthorized: status %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrUnauthorized
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NotFoundError is returned on HTTP 404
type NotFoundError struct {
	Path string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RequestError is returned for any other non-2xx response
type RequestError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("catalog API error: status %d: %s", e.StatusCode, e.Message)
}

// DecodeError is returned when a successful response body cannot be decoded
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsAuthError checks if err is, or wraps, an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if err is, or wraps, a not found response
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
