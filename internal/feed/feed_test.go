package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Banco de la República</title>
  <item>
    <title>Haircuts repos - julio 2025</title>
    <link>https://portal.test/es/sistemas-pago/dcv/haircuts-repos-julio-2025</link>
    <pubDate>Mon, 04 Aug 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Informe de política monetaria</title>
    <link>https://portal.test/es/informe</link>
  </item>
  <item>
    <title>Haircuts deuda externa - julio 2025</title>
    <link>https://portal.test/es/sistemas-pago/dcv/haircuts-deuda-externa-julio-2025</link>
  </item>
</channel>
</rss>`

func TestLatestFiltersByTitle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeed)
	}))
	defer ts.Close()

	entries, err := NewWatcher(ts.URL).Latest(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 haircut entries, got %d", len(entries))
	}
	if entries[0].Title != "Haircuts repos - julio 2025" {
		t.Errorf("first entry = %q", entries[0].Title)
	}
	if entries[0].PublishedAt.IsZero() {
		t.Error("expected parsed publication date")
	}
}

func TestLatestHonorsLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFeed)
	}))
	defer ts.Close()

	entries, err := NewWatcher(ts.URL).Latest(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry with limit, got %d", len(entries))
	}
}

func TestLatestFeedUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if _, err := NewWatcher(ts.URL).Latest(context.Background(), 0); err == nil {
		t.Error("expected error when the feed is unavailable")
	}
}
