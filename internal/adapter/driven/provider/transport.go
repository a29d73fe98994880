// Package provider implements the DNSProvider port for the supported DNS
// hosting providers and the factory that builds live connections from a
// provider type plus a credential set.
package provider

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/time/rate"
)

// defaultTimeout bounds every provider API call; the orchestration layer
// defines no cancellation of its own.
const defaultTimeout = 30 * time.Second

// rateLimitedTransport gates outbound requests through a token bucket so a
// misbehaving caller cannot exhaust a provider-side quota. Wait respects the
// request context.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient builds the transport stack shared by all provider adapters:
//  1. httpcache (ETag-based conditional request caching for GETs)
//  2. token-bucket rate limiting (rps/burst per connection)
func newHTTPClient(rps float64, burst int) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()

	var transport http.RoundTripper = cacheTransport
	if rps > 0 && burst > 0 {
		transport = &rateLimitedTransport{
			base:    cacheTransport,
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}
}
