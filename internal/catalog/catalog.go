// Package catalog encodes the BanRep file-naming conventions for the monthly
// haircut publications. The portal renamed these files several times over the
// years, with a handful of one-off exceptions, so the catalog maps a
// (category, year, month) period to an ordered list of plausible file paths,
// most likely first.
//
// Paths are relative to the public attachments root
// (https://www.banrep.gov.co/sites/default/files/). The catalog is pure: the
// same period always yields the same list, and it never touches the network.
package catalog

import (
	"fmt"
	"strings"

	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/pkg/models"
)

// Naming eras. The convention changed mid-2024: before mayo the files kept
// the pre-2024 naming (External Debt was even published as PDF); from mayo
// the current lowercase template appeared, carrying a literal "anexo-"
// prefix through the rest of that year. From 2025 the prefix was dropped.
const (
	currentEraStart = 2025
	transitionYear  = 2024
	// First month (1-based) of transitionYear using the prefixed template.
	transitionMonth = 5
	// First year in which .xlsx uploads appear; before this only .xls exists.
	xlsxSince = 2021
)

// prefixAnexo is the literal prefix the portal attached to uploads during
// the second half of the transition year.
const prefixAnexo = "anexo-"

// paginasDir is the secondary upload directory observed for the old External
// Debt PDF publications.
const paginasDir = "paginas"

// overrideKey identifies one period in the exception table.
type overrideKey struct {
	cat   models.Category
	year  int
	month string
}

// overrides maps periods whose published filename follows no rule at all to
// their literal candidate lists. An override is authoritative and final: no
// generated candidates are merged behind it.
//
// mayo 2024 deuda externa: the upload collided with an earlier draft and the
// portal kept it under the Drupal dedup suffix "_0".
var overrides = map[overrideKey][]string{
	{models.CategoryExternalDebt, 2024, "mayo"}: {
		"anexo-haircuts-deuda-externa-mayo-2024_0.xlsx",
	},
}

// RulesFor returns the ordered candidate paths for a period, plus whether
// the list came from the exception table (exclusive: no fallback may be
// appended downstream).
//
// Unknown month or category names fail fast with an InvalidInput-class
// error; a year outside the supported range still generates candidates,
// the resolver simply won't find any of them.
func RulesFor(cat models.Category, year int, month string) ([]string, bool, error) {
	if !cat.Valid() {
		return nil, false, &models.ErrInvalidCategory{Input: string(cat)}
	}
	m, err := calendar.ValidateMonth(month)
	if err != nil {
		return nil, false, err
	}

	if paths, ok := overrides[overrideKey{cat, year, m.Name}]; ok {
		return dedupe(paths), true, nil
	}

	var paths []string
	switch {
	case year >= currentEraStart:
		paths = currentEra(cat, year, m)
	case year == transitionYear:
		paths = transitionEra(cat, year, m)
	default:
		paths = legacyEra(cat, year, m)
	}
	return dedupe(paths), false, nil
}

// currentEra: one primary template, lowercase slug, no prefix.
// Example: haircuts-repos-diciembre-2025.xlsx
func currentEra(cat models.Category, year int, m calendar.Month) []string {
	return []string{currentTemplate(cat, year, m)}
}

// transitionEra covers 2024, split at mayo.
func transitionEra(cat models.Category, year int, m calendar.Month) []string {
	if m.Num >= transitionMonth {
		return []string{prefixAnexo + currentTemplate(cat, year, m)}
	}
	// Before the change the old habits still held: External Debt went out as
	// PDF (with a spreadsheet twin occasionally uploaded later), Repos kept
	// the title-case spreadsheet name.
	if cat == models.CategoryExternalDebt {
		return []string{
			fmt.Sprintf("%s-%s-%d.pdf", cat.Slug(), m.Name, year),
			fmt.Sprintf("%s-%s-%d.xlsx", cat.Slug(), m.Name, year),
		}
	}
	return []string{
		titleTemplate(cat, year, m, ".xlsx"),
		currentTemplate(cat, year, m),
	}
}

// legacyEra covers 2019-2023: several simultaneously plausible templates.
// Extension preference depends on the year bucket (the portal had no .xlsx
// uploads before xlsxSince), and External Debt additionally published
// all-caps PDF documents, usually under the paginas/ subdirectory.
func legacyEra(cat models.Category, year int, m calendar.Month) []string {
	var paths []string

	if cat == models.CategoryExternalDebt {
		doc := upperToken(cat, year, m) + ".pdf"
		// paginas/ variants were the usual location; root uploads are rarer.
		paths = append(paths, paginasDir+"/"+doc, doc)
	}

	for _, ext := range legacyExtensions(year) {
		paths = append(paths, titleTemplate(cat, year, m, ext))
	}
	for _, ext := range legacyExtensions(year) {
		paths = append(paths, upperToken(cat, year, m)+ext)
	}
	return paths
}

// legacyExtensions returns the spreadsheet extension preference for a legacy
// year: .xls only for the oldest years, .xlsx before .xls afterwards.
func legacyExtensions(year int) []string {
	if year < xlsxSince {
		return []string{".xls"}
	}
	return []string{".xlsx", ".xls"}
}

// currentTemplate builds the current-era filename:
// haircuts-<slug>-<mes>-<year>.xlsx
func currentTemplate(cat models.Category, year int, m calendar.Month) string {
	return fmt.Sprintf("%s-%s-%d.xlsx", cat.Slug(), m.Name, year)
}

// titleTemplate builds the legacy title-case filename:
// Haircuts-repos-enero-2023.xlsx
func titleTemplate(cat models.Category, year int, m calendar.Month, ext string) string {
	return fmt.Sprintf("Haircuts-%s-%s-%d%s", cat.SlugTail(), m.Name, year, ext)
}

// upperToken builds the all-caps underscore token used by the oldest
// uploads: HAIRCUTS_DEUDA_EXTERNA_ENERO_2019
func upperToken(cat models.Category, year int, m calendar.Month) string {
	tail := strings.ToUpper(strings.ReplaceAll(cat.SlugTail(), "-", "_"))
	return fmt.Sprintf("HAIRCUTS_%s_%s_%d", tail, strings.ToUpper(m.Name), year)
}

// dedupe removes duplicate paths preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
