package resolver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dcvtools/haircuts/internal/calendar"
	"github.com/dcvtools/haircuts/internal/infra"
	"github.com/dcvtools/haircuts/pkg/models"
)

// detailSlugPrefix is the path under which the monthly detail pages live.
const detailSlugPrefix = "/es/sistemas-pago/dcv"

// attachmentPath marks public attachments on the portal; only links under it
// are considered publication files.
const attachmentPath = "/sites/default/files/"

// attachmentPriority is the fixed extension preference when a detail page
// links several formats.
var attachmentPriority = []models.FileKind{
	models.KindXLSX, models.KindXLS, models.KindCSV, models.KindPDF,
}

// Listing resolves a period by scanning the portal's haircuts listing page
// for the monthly detail page, then scanning that page for the attachment
// link. It is the legacy discovery strategy: slower than Direct but immune
// to filename guessing going stale.
type Listing struct {
	baseURL    string
	listingURL string
	maxPages   int
	client     *infra.HTTPClient
	limiter    *infra.RateLimiter
	cache      *infra.Cache
}

// NewListing creates the HTML discovery resolver. Listing pages are cached
// for the cache's TTL so a batch of lookups reuses one page scan.
func NewListing(baseURL, listingURL string, maxPages int, client *infra.HTTPClient, limiter *infra.RateLimiter, cache *infra.Cache) *Listing {
	return &Listing{
		baseURL:    strings.TrimRight(baseURL, "/"),
		listingURL: listingURL,
		maxPages:   maxPages,
		client:     client,
		limiter:    limiter,
		cache:      cache,
	}
}

// Name returns "listing".
func (l *Listing) Name() string { return "listing" }

// Resolve discovers the detail page for the period and returns its first
// attachment by extension priority. All network trouble degrades to a
// not-found result.
func (l *Listing) Resolve(ctx context.Context, p models.Period) (*models.ResolutionResult, error) {
	if !p.Category.Valid() {
		return nil, &models.ErrInvalidCategory{Input: string(p.Category)}
	}
	m, err := calendar.ValidateMonth(p.Month)
	if err != nil {
		return nil, err
	}

	result := &models.ResolutionResult{Period: p, Strategy: l.Name()}

	detailURL := l.discoverDetailPage(ctx, p.Category, m, p.Year)
	if detailURL == "" {
		return result, nil
	}
	result.Candidates = append(result.Candidates, detailURL)

	fileURL := l.findAttachment(ctx, detailURL)
	if fileURL == "" {
		return result, nil
	}
	result.Candidates = append(result.Candidates, fileURL)
	result.Found = true
	result.URL = fileURL
	return result, nil
}

// discoverDetailPage locates the monthly detail page. It first scans the
// listing pages for a link whose visible text matches the expected title
// ("<Category label> - <mes> <year>", case-insensitive); if no link matches
// it falls back to the constructed slug, accepted only when a page actually
// answers there.
func (l *Listing) discoverDetailPage(ctx context.Context, cat models.Category, m calendar.Month, year int) string {
	expected := fmt.Sprintf("%s - %s %d", cat.Label(), m.Name, year)

	for _, doc := range l.listingPages(ctx) {
		found := ""
		doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if strings.EqualFold(text, expected) {
				href, _ := s.Attr("href")
				found = l.absolutize(href)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	// Slug fallback: only valid if the page exists.
	slug := fmt.Sprintf("%s/%s-%s-%d", detailSlugPrefix, cat.Slug(), m.Name, year)
	candidate := l.baseURL + slug
	if l.pageExists(ctx, candidate) {
		return candidate
	}
	return ""
}

// findAttachment scans a detail page for the first link under the public
// attachments path, preferring extensions in attachmentPriority order.
func (l *Listing) findAttachment(ctx context.Context, detailURL string) string {
	doc := l.fetchDoc(ctx, detailURL)
	if doc == nil {
		return ""
	}

	byKind := make(map[models.FileKind]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, attachmentPath) {
			return
		}
		kind := models.KindOf(href)
		if _, taken := byKind[kind]; kind != models.KindUnknown && !taken {
			byKind[kind] = l.absolutize(href)
		}
	})

	for _, kind := range attachmentPriority {
		if u, ok := byKind[kind]; ok {
			return u
		}
	}
	return ""
}

// listingPages returns the parsed listing page and its paginated
// continuations, in listed order, stopping at the first page that fails to
// load. Pages come from the short-lived cache when possible.
func (l *Listing) listingPages(ctx context.Context) []*goquery.Document {
	var docs []*goquery.Document
	for i := 0; i < l.maxPages; i++ {
		u := l.listingURL
		if i > 0 {
			u = fmt.Sprintf("%s?page=%d", l.listingURL, i)
		}
		doc := l.fetchDoc(ctx, u)
		if doc == nil {
			break
		}
		docs = append(docs, doc)
	}
	return docs
}

// fetchDoc fetches and parses an HTML page, consulting the cache first.
// Returns nil on any failure.
func (l *Listing) fetchDoc(ctx context.Context, url string) *goquery.Document {
	var data []byte
	if cached, ok := l.cache.Get(url); ok {
		data = cached.([]byte)
	} else {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil
		}
		fetched, err := l.client.GetBytes(ctx, url)
		if err != nil {
			return nil
		}
		l.cache.Set(url, fetched)
		data = fetched
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return doc
}

// pageExists checks that a detail page answers with a success status.
func (l *Listing) pageExists(ctx context.Context, url string) bool {
	if _, ok := l.cache.Get(url); ok {
		return true
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return false
	}
	data, err := l.client.GetBytes(ctx, url)
	if err != nil {
		return false
	}
	l.cache.Set(url, data)
	return true
}

// absolutize resolves a portal-relative href against the site root.
func (l *Listing) absolutize(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return l.baseURL + href
}
