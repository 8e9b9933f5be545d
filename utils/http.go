package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

// UserAgent identifies this service on outbound requests
const UserAgent = "Resumify/1.0"

// NewHTTPClient creates a configured HTTP client for calls to the label and
// translation service
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: UserAgentMiddleware(transport),
	}
}

// UserAgentMiddleware adds a user agent header to requests
func UserAgentMiddleware(next http.RoundTripper) http.RoundTripper {
	return &userAgentTransport{next: next}
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.next.RoundTrip(req)
}
