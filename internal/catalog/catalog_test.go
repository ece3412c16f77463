package catalog

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/pkg/models"
)

var bothCategories = []models.Category{
	models.CategoryRepos,
	models.CategoryExternalDebt,
}

func TestRulesForTotality(t *testing.T) {
	// Every period in the supported range must yield a non-empty,
	// duplicate-free list.
	for year := calendar.FirstYear; year <= time.Now().Year(); year++ {
		for _, cat := range bothCategories {
			for _, m := range calendar.Months() {
				paths, _, err := RulesFor(cat, year, m.Name)
				if err != nil {
					t.Fatalf("RulesFor(%s, %d, %s): %v", cat, year, m.Name, err)
				}
				if len(paths) == 0 {
					t.Errorf("RulesFor(%s, %d, %s): empty list", cat, year, m.Name)
				}
				assertNoDuplicates(t, paths)
			}
		}
	}
}

func TestRulesForIdempotent(t *testing.T) {
	first, _, err := RulesFor(models.CategoryExternalDebt, 2021, "agosto")
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := RulesFor(models.CategoryExternalDebt, 2021, "agosto")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("RulesFor not idempotent:\n  first:  %v\n  second: %v", first, second)
	}
}

func TestCurrentEra(t *testing.T) {
	paths, exclusive, err := RulesFor(models.CategoryRepos, 2025, "diciembre")
	if err != nil {
		t.Fatal(err)
	}
	if exclusive {
		t.Error("current era period should not be exclusive")
	}
	if paths[0] != "haircuts-repos-diciembre-2025.xlsx" {
		t.Errorf("primary candidate = %q, want haircuts-repos-diciembre-2025.xlsx", paths[0])
	}
}

func TestTransitionEraBeforeChange(t *testing.T) {
	// External Debt went out as PDF through abril 2024.
	paths, _, err := RulesFor(models.CategoryExternalDebt, 2024, "enero")
	if err != nil {
		t.Fatal(err)
	}
	if paths[0] != "haircuts-deuda-externa-enero-2024.pdf" {
		t.Errorf("primary candidate = %q, want haircuts-deuda-externa-enero-2024.pdf", paths[0])
	}
	if paths[1] != "haircuts-deuda-externa-enero-2024.xlsx" {
		t.Errorf("secondary candidate = %q, want the .xlsx twin", paths[1])
	}
}

func TestTransitionEraAfterChange(t *testing.T) {
	paths, _, err := RulesFor(models.CategoryRepos, 2024, "agosto")
	if err != nil {
		t.Fatal(err)
	}
	if paths[0] != "anexo-haircuts-repos-agosto-2024.xlsx" {
		t.Errorf("primary candidate = %q, want the anexo- prefixed template", paths[0])
	}
}

func TestExceptionOverride(t *testing.T) {
	paths, exclusive, err := RulesFor(models.CategoryExternalDebt, 2024, "mayo")
	if err != nil {
		t.Fatal(err)
	}
	if !exclusive {
		t.Error("mayo 2024 deuda externa should be an exclusive override")
	}
	want := []string{"anexo-haircuts-deuda-externa-mayo-2024_0.xlsx"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("override = %v, want %v", paths, want)
	}
}

func TestOverrideIsSoleCandidate(t *testing.T) {
	// An exclusive override suppresses the fallback generator entirely.
	candidates, err := BuildCandidates(models.CategoryExternalDebt, 2024, "mayo")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected sole candidate, got %d: %v", len(candidates), candidates)
	}
	if candidates[0].URL != "anexo-haircuts-deuda-externa-mayo-2024_0.xlsx" {
		t.Errorf("sole candidate = %q", candidates[0].URL)
	}
}

func TestLegacyEraExtensions(t *testing.T) {
	// No .xlsx uploads existed before 2021.
	paths, _, err := RulesFor(models.CategoryRepos, 2019, "marzo")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if strings.HasSuffix(p, ".xlsx") {
			t.Errorf("2019 candidate %q has .xlsx extension", p)
		}
	}

	// From 2021 on, .xlsx is preferred but .xls stays as a fallback.
	paths, _, err = RulesFor(models.CategoryRepos, 2021, "marzo")
	if err != nil {
		t.Fatal(err)
	}
	xlsx := indexSuffix(paths, ".xlsx")
	xls := indexSuffix(paths, ".xls")
	if xlsx < 0 || xls < 0 {
		t.Fatalf("2021 candidates missing an extension family: %v", paths)
	}
	if xlsx > xls {
		t.Errorf("2021: .xlsx candidate should precede .xls: %v", paths)
	}
}

func TestLegacyEraExternalDebtDocuments(t *testing.T) {
	paths, _, err := RulesFor(models.CategoryExternalDebt, 2019, "enero")
	if err != nil {
		t.Fatal(err)
	}

	// paginas/ document variants come first, then the root document, then
	// the plain spreadsheet variants.
	if paths[0] != "paginas/HAIRCUTS_DEUDA_EXTERNA_ENERO_2019.pdf" {
		t.Errorf("first legacy candidate = %q, want the paginas/ document", paths[0])
	}
	if paths[1] != "HAIRCUTS_DEUDA_EXTERNA_ENERO_2019.pdf" {
		t.Errorf("second legacy candidate = %q, want the root document", paths[1])
	}
	pdf := indexSuffix(paths, ".pdf")
	xls := indexSuffix(paths, ".xls")
	if pdf > xls {
		t.Errorf("document variants should precede spreadsheet variants: %v", paths)
	}
}

func TestLegacyEraReposHasNoDocuments(t *testing.T) {
	paths, _, err := RulesFor(models.CategoryRepos, 2020, "julio")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if strings.HasSuffix(p, ".pdf") {
			t.Errorf("repos legacy candidate %q is a document", p)
		}
	}
}

func TestRulesForInvalidInput(t *testing.T) {
	if _, _, err := RulesFor(models.CategoryRepos, 2024, "foo"); err == nil {
		t.Error("expected error for unknown month")
	} else if _, ok := err.(*calendar.ErrInvalidMonth); !ok {
		t.Errorf("expected *calendar.ErrInvalidMonth, got %T", err)
	}

	if _, _, err := RulesFor(models.Category("bonds"), 2024, "enero"); err == nil {
		t.Error("expected error for unknown category")
	} else if _, ok := err.(*models.ErrInvalidCategory); !ok {
		t.Errorf("expected *models.ErrInvalidCategory, got %T", err)
	}
}

func TestBuildCandidatesCatalogFirst(t *testing.T) {
	rules, exclusive, err := RulesFor(models.CategoryRepos, 2022, "junio")
	if err != nil {
		t.Fatal(err)
	}
	if exclusive {
		t.Fatal("unexpected exclusive period")
	}

	candidates, err := BuildCandidates(models.CategoryRepos, 2022, "junio")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) < len(rules) {
		t.Fatalf("builder dropped catalog candidates: %d < %d", len(candidates), len(rules))
	}
	for i, want := range rules {
		if candidates[i].URL != want {
			t.Errorf("candidate[%d] = %q, want catalog entry %q", i, candidates[i].URL, want)
		}
	}

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}
	assertNoDuplicates(t, urls)
}

func TestBuildCandidatesIdempotent(t *testing.T) {
	first, err := BuildCandidates(models.CategoryExternalDebt, 2023, "octubre")
	if err != nil {
		t.Fatal(err)
	}
	second, err := BuildCandidates(models.CategoryExternalDebt, 2023, "octubre")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("BuildCandidates not idempotent")
	}
}

func TestBuildCandidatesOutOfRangeYear(t *testing.T) {
	// Years beyond the known range still generate candidates; nonexistence
	// is the resolver's problem, not the catalog's.
	candidates, err := BuildCandidates(models.CategoryRepos, 2030, "enero")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) == 0 {
		t.Error("expected candidates for a future year")
	}
}

// --- helpers ---

func assertNoDuplicates(t *testing.T, paths []string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, p := range paths {
		if seen[p] {
			t.Errorf("duplicate candidate %q", p)
		}
		seen[p] = true
	}
}

func indexSuffix(paths []string, suffix string) int {
	for i, p := range paths {
		if strings.HasSuffix(p, suffix) {
			return i
		}
	}
	return -1
}
