// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
)

// UserAgent identifies the harvester to the search API.
const UserAgent = "newsharvest/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func (h *HTTPHelper) IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BuildHeaders creates HTTP headers with defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}

// RedactQuery returns u as a string with the given query parameters masked.
func (h *HTTPHelper) RedactQuery(u *url.URL, keys ...string) string {
	redacted := *u
	q := redacted.Query()

	for _, k := range keys {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}

	redacted.RawQuery = q.Encode()

	return redacted.String()
}
