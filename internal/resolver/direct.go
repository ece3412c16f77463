package resolver

import (
	"context"
	"strings"

	"github.com/dcvtools/haircuts/internal/catalog"
	"github.com/dcvtools/haircuts/pkg/models"
)

// Direct resolves a period by guessing file URLs from the naming catalog and
// probing them in priority order. The first candidate the prober confirms
// wins; candidates are probed strictly sequentially because ordering encodes
// precedence.
type Direct struct {
	filesURL string
	prober   *Prober
}

// NewDirect creates the URL-guessing resolver. filesURL is the public
// attachments root the relative catalog paths are joined against.
func NewDirect(filesURL string, prober *Prober) *Direct {
	return &Direct{filesURL: strings.TrimRight(filesURL, "/"), prober: prober}
}

// Name returns "direct".
func (d *Direct) Name() string { return "direct" }

// Resolve builds the ordered candidate list and returns the first URL that
// exists, or a not-found result carrying the full list as a diagnostic.
func (d *Direct) Resolve(ctx context.Context, p models.Period) (*models.ResolutionResult, error) {
	candidates, err := catalog.BuildCandidates(p.Category, p.Year, p.Month)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = d.filesURL + "/" + c.URL
	}

	result := &models.ResolutionResult{
		Period:     p,
		Candidates: urls,
		Strategy:   d.Name(),
	}
	for _, u := range urls {
		if d.prober.Exists(ctx, u) {
			result.Found = true
			result.URL = u
			return result, nil
		}
	}
	return result, nil
}
