// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a malformed lookup, such as a paper lookup
// that does not set exactly one identifier. No request is made.
var ErrInvalidArgument = errors.New("invalid argument")

// UpstreamError reports a non-2xx response from the API.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Semantic Scholar API returned HTTP %d for %s", e.StatusCode, e.URL)
}

// TransportError reports a network-level failure.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Semantic Scholar API request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == 404
}
