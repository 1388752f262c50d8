package client

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// NewHTTPClient returns an HTTP client with a cookie jar, so the CSRF cookie handed out by the host page
// is sent back with the API calls. A zero timeout means requests never time out.
func NewHTTPClient(timeout time.Duration) *http.Client {
	// cookiejar.New only fails on a non-nil Options with a broken PublicSuffixList.
	jar, _ := cookiejar.New(nil)

	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
