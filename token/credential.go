package token

import (
	"fmt"
	"time"
)

// credential is the cached bearer value with its expiry bookkeeping. It is
// replaced wholesale on every refresh and never leaves this package; callers
// only see the raw token string or a Status.
type credential struct {
	value      string
	acquiredAt time.Time
	expiresAt  time.Time
}

func (c credential) validAt(now time.Time) bool {
	return c.value != "" && now.Before(c.expiresAt)
}

// Status is the read-only view of the credential cache exposed to the HTTP
// layer and the health endpoint.
type Status struct {
	Present          bool `json:"present"`
	SecondsRemaining int  `json:"secondsRemaining"`
	Valid            bool `json:"valid"`
}

// AcquisitionError reports that every acquisition strategy was exhausted.
// It wraps the failure of the last strategy attempted.
type AcquisitionError struct {
	Attempts int
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("token acquisition failed after %d strategies: %v", e.Attempts, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
