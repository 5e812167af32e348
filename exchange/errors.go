package exchange

import (
	"errors"
	"fmt"
)

// ErrMissingUserKey is the precondition failure returned when a send is
// attempted without a caller identity. The check happens before any state
// mutation and never reaches the network.
var ErrMissingUserKey = errors.New("user key is required")

// Sentinel errors for registry operations.
var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceExists    = errors.New("service already registered")
	ErrEmptyServiceName = errors.New("service name cannot be empty")
)

// RemoteError reports a failed exchange with the answering service:
// a transport failure, a non-2xx response, or an unparsable payload.
// Exchanges are fire-once; the caller owns any user-visible fallback.
type RemoteError struct {
	Endpoint string
	Status   int // zero when the request never completed
	Err      error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exchange %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("exchange %s: unexpected status %d", e.Endpoint, e.Status)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
