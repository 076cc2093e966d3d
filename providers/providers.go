package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deepnoodle-ai/wonton/retry"
)

// ProviderError is the typed failure returned by every provider. It carries
// either the upstream HTTP status and body, or the transport error that
// prevented a response (StatusCode 0).
type ProviderError struct {
	statusCode int
	body       string
	err        error
}

func (e *ProviderError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("provider transport error: %v", e.err)
	}
	return fmt.Sprintf("provider api error (status %d): %s", e.statusCode, e.body)
}

func (e *ProviderError) Unwrap() error {
	return e.err
}

// StatusCode returns the upstream HTTP status, or 0 for transport errors.
func (e *ProviderError) StatusCode() int {
	return e.statusCode
}

// Body returns the upstream response body.
func (e *ProviderError) Body() string {
	return e.body
}

// NewError creates a ProviderError for a non-2xx response. Non-retryable
// status codes are wrapped with retry.MarkPermanent.
func NewError(statusCode int, body string) error {
	err := &ProviderError{statusCode: statusCode, body: body}
	if !shouldRetry(statusCode) {
		return retry.MarkPermanent(err)
	}
	return err
}

// NewTransportError creates a retryable ProviderError wrapping a failure to
// reach the upstream service.
func NewTransportError(err error) error {
	return &ProviderError{err: err}
}

// AsProviderError unwraps err into a *ProviderError if it contains one.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// shouldRetry determines if the given status code should trigger a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode == http.StatusInternalServerError || // 500
		statusCode == http.StatusServiceUnavailable || // 503
		statusCode == http.StatusGatewayTimeout || // 504
		statusCode == 520 // Cloudflare
}
