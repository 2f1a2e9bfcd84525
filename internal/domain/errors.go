package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication marks an HTTP 401 from the portal. It is never
	// retried and always distinguishable from generic remote failures.
	ErrAuthentication = errors.New("portal rejected credentials (http 401)")

	// ErrNoSession means no persisted session state exists yet.
	ErrNoSession = errors.New(`no session state found, run "bh login" first`)

	// ErrSetup marks an orchestrator-level failure to build the pooled
	// connection client; it converts every unit into a failure result.
	ErrSetup = errors.New("connection setup failed")
)

// RemoteError is any portal response with status >= 400 other than 401.
type RemoteError struct {
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("portal returned status %d", e.StatusCode)
}

// StatusError maps an HTTP status to the error taxonomy: nil for 2xx/3xx,
// ErrAuthentication for 401, RemoteError otherwise.
func StatusError(status int) error {
	switch {
	case status == 401:
		return ErrAuthentication
	case status >= 400 || status < 100:
		return &RemoteError{StatusCode: status}
	default:
		return nil
	}
}
