package providers

import (
	"net/http"

	"wallshift/internal/structures"
)

// NewHTTPClientProvider builds the shared client used for every API call
// and image download. The timeout covers the full request; there is no
// per-tick retry, a timeout surfaces as a network fetch failure.
func NewHTTPClientProvider(conf *structures.Config) *http.Client {
	return &http.Client{
		Timeout: conf.HTTP.Timeout,
	}
}
