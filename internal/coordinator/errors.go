package coordinator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse marks a fetch whose body decoded to null or nothing.
var ErrEmptyResponse = errors.New("empty response body")

// APIError is an API-level failure signaled by a non-empty errors array in
// an otherwise well-formed response body.
type APIError struct {
	URL      string
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error from %s: %s", e.URL, strings.Join(e.Messages, "; "))
}
