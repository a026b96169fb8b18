// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	// ErrTypeTransport covers unreachable hosts, broken connections and
	// response bodies that cannot be decoded.
	ErrTypeTransport ErrorType = iota
	// ErrTypeHTTPStatus means the service answered with a non-2xx status.
	ErrTypeHTTPStatus
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeHTTPStatus:
		return "http_status"
	default:
		return "transport"
	}
}

// ClientError represents an error from the service client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// newStatusError builds the error for a non-2xx response.
func newStatusError(code int) *ClientError {
	return &ClientError{
		Type:       ErrTypeHTTPStatus,
		Message:    "Request error: " + strconv.Itoa(code),
		StatusCode: code,
	}
}

// newTransportError wraps a failure that happened before a usable reply existed.
func newTransportError(message string, cause error) *ClientError {
	return &ClientError{Type: ErrTypeTransport, Message: message, Cause: cause}
}

// IsHTTPStatus reports whether err is a non-2xx status failure.
func IsHTTPStatus(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeHTTPStatus
}

// IsTransport reports whether err is a transport or decode failure.
func IsTransport(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTransport
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
