package domain

import (
	"errors"
	"fmt"
)

// Messages shown to the user for geolocation failures
const (
	MsgPermissionDenied    = "Location permission denied. Please enable location access."
	MsgPositionUnavailable = "Location information is unavailable."
	MsgLocationTimeout     = "Location request timed out."
	MsgLocationUnknown     = "An unknown error occurred."
)

// LocationPermissionError means the user (or operator) refused location access
type LocationPermissionError struct {
	Reason string
}

func (e *LocationPermissionError) Error() string {
	if e.Reason == "" {
		return MsgPermissionDenied
	}
	return e.Reason
}

// LocationPlatformError means the platform could not produce a position
type LocationPlatformError struct {
	Reason string
	Err    error
}

func (e *LocationPlatformError) Error() string {
	if e.Reason == "" {
		return MsgPositionUnavailable
	}
	return e.Reason
}

func (e *LocationPlatformError) Unwrap() error {
	return e.Err
}

// FetchError is a failed weather API call (network or API-level)
type FetchError struct {
	Query      string
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: api error: status %d, body: %s", e.Query, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Query, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// LocationMessage maps a locator failure to the string surfaced to the user
func LocationMessage(err error) string {
	var perm *LocationPermissionError
	if errors.As(err, &perm) {
		return perm.Error()
	}
	var platform *LocationPlatformError
	if errors.As(err, &platform) {
		return platform.Error()
	}
	return MsgLocationUnknown
}
