package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds the single outbound weather call. On expiry the
// request proceeds with simulated data rather than failing.
const DefaultTimeout = 15 * time.Second

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
