// Package domain defines the access method data model.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain error with a structured error code.
//
// Codes have the form AM-<GROUP>-<NNNN>. The group decides how the CLI
// classifies the failure: VALD errors are raised locally before the daemon
// is contacted, RMTE errors come from the daemon interaction.
type DomainError struct {
	Code    string // Error code (e.g., "AM-VALD-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidationError reports whether err was raised by local validation.
// Validation errors are deterministic: the same input always fails.
func IsValidationError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), codePrefixValidation)
}

// IsRemoteError reports whether err came from the daemon interaction.
func IsRemoteError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), codePrefixRemote)
}

const (
	codePrefixValidation = "AM-VALD-"
	codePrefixRemote     = "AM-RMTE-"
)

// ============================================================================
// Validation Errors (VALD)
// ============================================================================

var (
	// ErrIncompleteCredentials indicates exactly one of username/password was given.
	ErrIncompleteCredentials = NewDomainError("AM-VALD-4001", "username and password must be given together")

	// ErrUnsupportedCipher indicates a Shadowsocks cipher outside the supported set.
	ErrUnsupportedCipher = NewDomainError("AM-VALD-4002", "unsupported cipher")

	// ErrInvalidPort indicates a port argument is not a 16-bit unsigned integer.
	ErrInvalidPort = NewDomainError("AM-VALD-4003", "invalid port")

	// ErrInvalidAddress indicates an IP address argument could not be parsed.
	ErrInvalidAddress = NewDomainError("AM-VALD-4004", "invalid ip address")

	// ErrUnknownMethodType indicates a wire descriptor with an unknown type tag.
	ErrUnknownMethodType = NewDomainError("AM-VALD-4005", "unknown access method type")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("AM-VALD-4006", "missing required argument")
)

// ============================================================================
// Remote Errors (RMTE)
// ============================================================================

var (
	// ErrRemote indicates the daemon rejected the request.
	ErrRemote = NewDomainError("AM-RMTE-5000", "daemon rejected request")

	// ErrRemoteUnavailable indicates the management interface could not be reached.
	ErrRemoteUnavailable = NewDomainError("AM-RMTE-5030", "daemon unavailable")
)

// ============================================================================
// Probe Errors (PROB)
// ============================================================================

var (
	// ErrProbeUnsupported indicates the probe cannot speak the method's protocol.
	ErrProbeUnsupported = NewDomainError("AM-PROB-4001", "probe not supported for access method")

	// ErrProbeFailed indicates the target could not be reached through the method.
	ErrProbeFailed = NewDomainError("AM-PROB-5020", "access method unreachable")
)
