package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/openai/openai-go"
)

// Error taxonomy for a failed send. All of these are recoverable: the caller
// rolls the history back and the user may retry.
var (
	// ErrInvalidAPIKey signals an HTTP 401 from the endpoint.
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrRateLimited signals an HTTP 429 from the endpoint.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTimeout signals that the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork covers connection refusals, DNS failures and the like.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse signals a 2xx body without the expected structure.
	ErrMalformedResponse = errors.New("unexpected API response")
)

// classify maps an SDK error onto the taxonomy, preserving the original
// message for the user.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		default:
			return fmt.Errorf("HTTP error %d: %w", apierr.StatusCode, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
