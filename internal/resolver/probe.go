package resolver

import (
	"context"

	"github.com/dcvtools/haircuts/internal/infra"
)

// Prober performs lightweight existence checks on candidate URLs.
//
// Policy: HEAD first; a success status is definitive. The portal's CDN
// sometimes answers HEAD with 403/404/405 for files that do exist, so those
// statuses escalate to a one-byte ranged GET before the candidate is written
// off. Any transport error counts as "does not exist" — resolution moves on
// to the next candidate rather than aborting.
type Prober struct {
	client  *infra.HTTPClient
	limiter *infra.RateLimiter
}

// NewProber creates a prober over the given HTTP client and rate limiter.
func NewProber(client *infra.HTTPClient, limiter *infra.RateLimiter) *Prober {
	return &Prober{client: client, limiter: limiter}
}

// Exists reports whether a URL hosts a real file, best-effort.
func (p *Prober) Exists(ctx context.Context, url string) bool {
	if err := p.limiter.Wait(ctx); err != nil {
		return false
	}

	status, err := p.client.Head(ctx, url)
	if err != nil {
		return false
	}
	if status >= 200 && status < 300 {
		return true
	}

	switch status {
	case 403, 404, 405:
		return p.confirm(ctx, url)
	}
	return false
}

// confirm is the heavier probe: a ranged GET for the first byte.
func (p *Prober) confirm(ctx context.Context, url string) bool {
	if err := p.limiter.Wait(ctx); err != nil {
		return false
	}
	status, err := p.client.RangeProbe(ctx, url)
	if err != nil {
		return false
	}
	return status == 200 || status == 206
}
