package api

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates a client built without a base URL or user id.
var ErrNotConfigured = errors.New("query api is not configured")

// FetchError is the single failure kind of a fetch: the request could not be
// sent, or the server answered with a non-success status or an unreadable body.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed: server returned %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
