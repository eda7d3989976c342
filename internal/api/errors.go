package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks a 401 from any protected call. The session
	// manager reacts with a forced logout.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnreachable marks a transport-level failure: no HTTP response
	// at all, as opposed to the backend saying no.
	ErrUnreachable = errors.New("backend unreachable")
)

// StatusError is a non-401 non-2xx response. Message carries the backend's
// reported reason when the body had one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("http %d", e.Code)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}
