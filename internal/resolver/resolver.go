// Package resolver turns a publication period into a confirmed file URL.
//
// Two strategies implement the same Resolver capability: Direct guesses file
// URLs from the naming catalog and probes them in priority order; Listing
// scans the portal's HTML listing page for the monthly detail page and its
// attachment. A Composite tries one and falls back to the other.
//
// Resolution never raises for network trouble: a miss is a value
// (ResolutionResult with Found=false). Only malformed input is an error.
package resolver

import (
	"context"

	"github.com/dcvtools/haircuts/pkg/models"
)

// Resolver resolves a period to a confirmed file URL or a not-found result.
type Resolver interface {
	// Name identifies the strategy, e.g. "direct" or "listing".
	Name() string

	// Resolve locates the publication file for the period. The returned
	// result is never nil when err is nil; err is reserved for
	// InvalidInput-class failures (unknown month or category).
	Resolve(ctx context.Context, p models.Period) (*models.ResolutionResult, error)
}

// Composite tries the primary strategy and, on a miss, the secondary one.
// The not-found diagnostic keeps the candidates of both attempts.
type Composite struct {
	primary   Resolver
	secondary Resolver
}

// NewComposite builds a composite resolver.
func NewComposite(primary, secondary Resolver) *Composite {
	return &Composite{primary: primary, secondary: secondary}
}

// Name returns "auto".
func (c *Composite) Name() string { return "auto" }

// Resolve runs the primary resolver and falls back to the secondary on a
// clean miss.
func (c *Composite) Resolve(ctx context.Context, p models.Period) (*models.ResolutionResult, error) {
	first, err := c.primary.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if first.Found {
		return first, nil
	}

	second, err := c.secondary.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if second.Found {
		second.Candidates = append(first.Candidates, second.Candidates...)
		return second, nil
	}

	first.Candidates = append(first.Candidates, second.Candidates...)
	return first, nil
}
