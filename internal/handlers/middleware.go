package handlers

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// CSRFCookieName is the cookie the page hands the CSRF token out in.
	CSRFCookieName = "csrftoken"
	// CSRFHeaderName is the header unsafe requests must echo the token in.
	CSRFHeaderName = "X-CSRFToken"
)

func csrfCookieValue(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// CSRF rejects unsafe requests whose CSRF header does not match the CSRF cookie.
func (m Main) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}

		cookie := csrfCookieValue(r)
		header := r.Header.Get(CSRFHeaderName)
		if cookie == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			m.logger.Warn("CSRF verification failed",
				zap.String("path", r.URL.Path),
				zap.Bool("hasCookie", cookie != ""))
			writeError(w, http.StatusForbidden, "CSRF verification failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests with 429 once limiter runs out of tokens.
func (m Main) RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
