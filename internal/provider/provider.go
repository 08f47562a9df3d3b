// Package provider wraps the outbound HTTP calls to the third-party
// generative services: Gemini (text, vision, image generation, structured
// output), Perplexity (deep research), Serper (web search snippets) and the
// Google speech APIs. Clients are stateless and safe for concurrent use;
// every failure is tagged with the provider that produced it.
package provider

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse marks a response body with an unexpected shape.
var ErrInvalidResponse = errors.New("invalid response")

// Error tags a failure with the provider that produced it and, for transport
// failures, the HTTP status.
type Error struct {
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError builds a transport error from a non-2xx response.
func statusError(providerName string, status int, body []byte) *Error {
	return &Error{
		Provider: providerName,
		Status:   status,
		Err:      fmt.Errorf("unexpected status: %s", truncate(string(body), 200)),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
