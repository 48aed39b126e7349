// Package resilience defines the closed error taxonomy every external call
// is normalized into, so orchestration code never branches on transport
// details.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ProviderReason classifies why a reasoning or OCR provider was unavailable.
type ProviderReason string

const (
	ReasonAuth      ProviderReason = "auth"
	ReasonForbidden ProviderReason = "forbidden"
	ReasonServer    ProviderReason = "server"
	ReasonTimeout   ProviderReason = "timeout"
)

// ValidationError reports malformed or out-of-range caller input. It is
// surfaced before any workflow step runs.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidationError creates a ValidationError for a named field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProviderUnavailableError reports a failed call to the live reasoning or
// OCR provider. The failover layer recovers from it exactly once by
// substituting the mock provider.
type ProviderUnavailableError struct {
	Provider string
	Reason   ProviderReason
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (%s): %v", e.Provider, e.Reason, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// NewProviderUnavailable wraps err as a provider-unavailable failure.
func NewProviderUnavailable(provider string, reason ProviderReason, err error) *ProviderUnavailableError {
	return &ProviderUnavailableError{Provider: provider, Reason: reason, Err: err}
}

// IsProviderUnavailable reports whether err (or anything in its chain) is a
// ProviderUnavailableError, or a network-level timeout, which the taxonomy
// treats identically.
func IsProviderUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderUnavailableError
	if errors.As(err, &pe) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// Wrapped HTTP client errors lose their type; match the usual suspects.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"context deadline exceeded",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// ProviderReasonFromStatus maps an HTTP status code from a provider into a
// ProviderReason, or "" if the status is not a provider-unavailable class.
func ProviderReasonFromStatus(code int) ProviderReason {
	switch {
	case code == http.StatusUnauthorized:
		return ReasonAuth
	case code == http.StatusForbidden:
		return ReasonForbidden
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ReasonTimeout
	case code == http.StatusTooManyRequests:
		return ReasonServer
	case code >= 500:
		return ReasonServer
	default:
		return ""
	}
}

// BackendUnavailableError reports a failed call to the ML, ledger, or
// notification backend. It is recorded as a failed step and escalated to
// PARTIAL or FAILED by the outcome rules, never silently swallowed.
type BackendUnavailableError struct {
	Service string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Service, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// NewBackendUnavailable wraps err as a backend failure for a named service.
func NewBackendUnavailable(service string, err error) *BackendUnavailableError {
	return &BackendUnavailableError{Service: service, Err: err}
}

// IsBackendUnavailable reports whether err is a BackendUnavailableError.
func IsBackendUnavailable(err error) bool {
	var be *BackendUnavailableError
	return errors.As(err, &be)
}

// ParseError reports a missing expected field in extracted document text.
// Workflows treat it as degraded, not fatal: they proceed with whatever
// fields were found.
type ParseError struct {
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: no %s found in document text", e.Field)
}

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
