// Package models defines the shared data types used across the application:
// publication periods, candidate URLs, resolution results, and downloads.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies which monthly haircut table a period refers to.
type Category string

const (
	// CategoryRepos is the haircut table applied to repo operations.
	CategoryRepos Category = "haircuts-repos"
	// CategoryExternalDebt is the haircut table for external debt collateral.
	CategoryExternalDebt Category = "haircuts-deuda-externa"
)

// Slug returns the lowercase URL slug for the category, e.g. "haircuts-repos".
func (c Category) Slug() string { return string(c) }

// SlugTail returns the slug without the shared "haircuts-" prefix,
// e.g. "repos" or "deuda-externa".
func (c Category) SlugTail() string {
	return strings.TrimPrefix(string(c), "haircuts-")
}

// Label returns the human-readable label used in listing page link titles,
// e.g. "Haircuts repos" or "Haircuts deuda externa".
func (c Category) Label() string {
	switch c {
	case CategoryRepos:
		return "Haircuts repos"
	case CategoryExternalDebt:
		return "Haircuts deuda externa"
	}
	return string(c)
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryRepos || c == CategoryExternalDebt
}

// ErrInvalidCategory is returned when a category identifier is not recognized.
type ErrInvalidCategory struct {
	Input string
}

func (e *ErrInvalidCategory) Error() string {
	return fmt.Sprintf("invalid category %q (expected %q or %q)",
		e.Input, CategoryRepos, CategoryExternalDebt)
}

// ParseCategory parses a category from user input. It accepts the full slug
// as well as the short forms "repos" and "deuda-externa".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "repos", string(CategoryRepos):
		return CategoryRepos, nil
	case "deuda-externa", "deuda_externa", string(CategoryExternalDebt):
		return CategoryExternalDebt, nil
	}
	return "", &ErrInvalidCategory{Input: s}
}

// Period identifies one monthly publication slot: a category, a year, and a
// Spanish month name. Immutable once constructed.
type Period struct {
	Category Category `json:"category"`
	Year     int      `json:"year"`
	Month    string   `json:"month"` // canonical lowercase Spanish name, e.g. "enero"
}

// String returns a compact identifier like "haircuts-repos-enero-2025".
func (p Period) String() string {
	return fmt.Sprintf("%s-%s-%d", p.Category.Slug(), p.Month, p.Year)
}

// FileKind classifies a candidate URL by its file extension.
type FileKind string

const (
	KindXLSX    FileKind = "xlsx"
	KindXLS     FileKind = "xls"
	KindCSV     FileKind = "csv"
	KindPDF     FileKind = "pdf"
	KindUnknown FileKind = "unknown"
)

// KindOf infers the file kind from a URL or path.
func KindOf(url string) FileKind {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return KindXLSX
	case strings.HasSuffix(lower, ".xls"):
		return KindXLS
	case strings.HasSuffix(lower, ".csv"):
		return KindCSV
	case strings.HasSuffix(lower, ".pdf"):
		return KindPDF
	}
	return KindUnknown
}

// Candidate is one hypothesized file location for a period. Its position in
// a candidate list encodes priority: earlier entries are more likely correct.
type Candidate struct {
	URL  string   `json:"url"`
	Kind FileKind `json:"kind"`
}

// NewCandidate builds a candidate, inferring the file kind from the URL.
func NewCandidate(url string) Candidate {
	return Candidate{URL: url, Kind: KindOf(url)}
}

// ResolutionResult is the outcome of resolving a period to a file URL.
// Not finding a file is a normal outcome, not an error: Found is false and
// Candidates carries the full ordered list that was tried, as a diagnostic.
type ResolutionResult struct {
	Period     Period   `json:"period"`
	Found      bool     `json:"found"`
	URL        string   `json:"url,omitempty"`
	Candidates []string `json:"candidates"`
	Strategy   string   `json:"strategy,omitempty"` // "direct" or "listing"
}

// Download holds the raw bytes of a fetched publication file.
type Download struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Bytes     []byte    `json:"-"`
	Size      int       `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}
