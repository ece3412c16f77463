package catalog

import (
	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/pkg/models"
)

// Fallback generates a broad, era-unaware candidate list covering every
// template family the portal has ever used. The catalog's era rules are the
// authority; this generator exists so that a gap in the rule table degrades
// to a longer probe sequence instead of a miss.
func Fallback(cat models.Category, year int, m calendar.Month) []string {
	paths := []string{
		currentTemplate(cat, year, m),
		prefixAnexo + currentTemplate(cat, year, m),
		titleTemplate(cat, year, m, ".xlsx"),
		titleTemplate(cat, year, m, ".xls"),
		upperToken(cat, year, m) + ".xlsx",
		upperToken(cat, year, m) + ".xls",
	}
	if cat == models.CategoryExternalDebt {
		doc := upperToken(cat, year, m) + ".pdf"
		paths = append(paths, paginasDir+"/"+doc, doc)
	}
	return paths
}

// BuildCandidates composes the era rules with the generic fallback into the
// final ordered, deduplicated candidate list for a period. Exception
// overrides are exclusive: when the catalog returns one, no fallback is
// appended. Pure function of its inputs and the static tables.
func BuildCandidates(cat models.Category, year int, month string) ([]models.Candidate, error) {
	paths, exclusive, err := RulesFor(cat, year, month)
	if err != nil {
		return nil, err
	}

	if !exclusive {
		// Month already validated by RulesFor.
		m, _ := calendar.ByName(month)
		paths = dedupe(append(paths, Fallback(cat, year, m)...))
	}

	candidates := make([]models.Candidate, len(paths))
	for i, p := range paths {
		candidates[i] = models.NewCandidate(p)
	}
	return candidates, nil
}
