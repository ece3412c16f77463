// Package feed watches the portal RSS feed for new haircuts publication
// announcements. Best-effort: the feed is a convenience surface for spotting
// fresh publications before guessing URLs for them.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one feed item that looks like a haircuts publication.
type Entry struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Watcher scans the portal feed for haircut announcements.
type Watcher struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewWatcher creates a watcher for the given feed URL.
func NewWatcher(feedURL string) *Watcher {
	return &Watcher{feedURL: feedURL, parser: gofeed.NewParser()}
}

// Latest returns up to limit recent feed entries whose titles mention the
// haircut tables, newest first as listed by the feed.
func (w *Watcher) Latest(ctx context.Context, limit int) ([]Entry, error) {
	parsed, err := w.parser.ParseURLWithContext(w.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, item := range parsed.Items {
		if !strings.Contains(strings.ToLower(item.Title), "haircuts") {
			continue
		}
		e := Entry{Title: item.Title, URL: item.Link}
		if item.PublishedParsed != nil {
			e.PublishedAt = *item.PublishedParsed
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}
