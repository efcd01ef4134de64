package einthusan

import (
	"fmt"
)

// Error types for site operations
type (
	// NotFoundError indicates a search yielded zero results.
	NotFoundError struct {
		Query    string
		Language Language
	}

	// AuthError indicates a login attempt failed, either because the
	// credentials were rejected or the site raised a challenge.
	AuthError struct {
		Reason string
		Err    error
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no results for %q in %s", e.Query, e.Language)
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
