package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a classified failure from a provider call. It is caught and
// logged by the chain, never surfaced to the caller; the classification
// exists for observability, not for control flow.
type Error struct {
	Provider   string
	StatusCode int
	Code       string
	Err        error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Quota reports whether the failure was quota exhaustion rather than an
// ordinary error. Handling is identical either way; the distinction only
// changes what gets logged.
func (e *Error) Quota() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	switch strings.ToLower(e.Code) {
	case "insufficient_quota", "quota_exceeded", "resource_exhausted", "rate_limit_error":
		return true
	}
	return false
}

// IsQuota classifies an arbitrary error from the chain.
func IsQuota(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Quota()
}
