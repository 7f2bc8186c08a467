package detect

import (
	"errors"
	"fmt"
)

// Kind tags a detection failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingCredential
	KindInvalidCredential
	KindRateLimited
	KindUpstream
	KindUnknownProvider
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream_error"
	case KindUnknownProvider:
		return "unknown_provider"
	case KindNetwork:
		return "network_failure"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrUnknownProvider   = &Error{Kind: KindUnknownProvider}
	ErrNetwork           = &Error{Kind: KindNetwork}
)

// Error is the single failure type produced by a detection request.
type Error struct {
	Kind     Kind
	Provider ProviderID

	// StatusCode is the upstream HTTP status for InvalidCredential,
	// RateLimited and Upstream errors.
	StatusCode int

	// Stats are the input text statistics when they were computed before
	// the failure.
	Stats *TextStats

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindMissingCredential:
		msg = "missing credential"
	case KindInvalidCredential:
		msg = fmt.Sprintf("invalid credential (status %d)", e.StatusCode)
	case KindRateLimited:
		msg = "rate limited"
	case KindUpstream:
		msg = fmt.Sprintf("upstream error: status %d", e.StatusCode)
	case KindUnknownProvider:
		msg = "unknown provider"
	case KindNetwork:
		msg = "network failure"
	default:
		msg = "detection failed"
	}

	if e.Provider != "" {
		msg = string(e.Provider) + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind only, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or KindUnknown when err is not a detection error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the upstream status carried by err, or 0.
func StatusCodeOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.StatusCode
	}
	return 0
}

// Message renders err as a user facing sentence.
func Message(err error) string {
	var de *Error
	if !errors.As(err, &de) {
		if err == nil {
			return ""
		}
		return "Analysis failed. Please try again."
	}

	name := string(de.Provider)
	switch de.Kind {
	case KindMissingCredential:
		return "API key not configured. Please set your API key in the settings."
	case KindInvalidCredential:
		if name == "" {
			return "Invalid API key. Please check and try again."
		}
		return fmt.Sprintf("Invalid API key. Please check your %s API key.", name)
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindUpstream:
		return fmt.Sprintf("API error: %d", de.StatusCode)
	case KindUnknownProvider:
		return "Unknown API provider"
	case KindNetwork:
		return "Connection failed. Please check your internet connection."
	default:
		return "Analysis failed. Please try again."
	}
}
