package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured marks calls made while the completion provider lacks
// credentials or names a provider that is not supported.
var ErrNotConfigured = errors.New("completion API is not configured")

// UpstreamError is a non-success answer from the completion provider.
type UpstreamError struct {
	Provider string
	Status   int
	Detail   string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s upstream error (%d %s): %s", e.Provider, e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Provider, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
