package radarr

import (
	"fmt"
)

// UnavailableError indicates Radarr could not be reached or answered
// with an error. A sync run aborts on it; the tool never retries.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("radarr unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
