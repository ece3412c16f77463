// Package fetch downloads resolved publication files and packages batch
// results. Download failures are distinct from resolution misses: by the
// time this package runs, the URL was already confirmed to exist.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dcvtools/haircuts/internal/infra"
	"github.com/dcvtools/haircuts/pkg/models"
)

// DownloadError reports a failed fetch of a URL that resolution had
// confirmed. It is a different failure from "not found".
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Fetcher downloads publication files.
type Fetcher struct {
	client *infra.HTTPClient
}

// New creates a fetcher with the given download timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{client: infra.NewHTTPClient(timeout)}
}

// Download fetches the full file at url. The suggested filename follows the
// period's canonical slug with the URL's extension.
func (f *Fetcher) Download(ctx context.Context, p models.Period, url string) (*models.Download, error) {
	data, err := f.client.GetBytes(ctx, url)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}
	return &models.Download{
		URL:       url,
		Filename:  Filename(p, url),
		Bytes:     data,
		Size:      len(data),
		FetchedAt: time.Now(),
	}, nil
}

// Filename builds the suggested local filename for a period's file, e.g.
// "haircuts-repos-enero-2025.xlsx".
func Filename(p models.Period, url string) string {
	ext := strings.ToLower(path.Ext(url))
	if ext == "" {
		ext = ".xlsx"
	}
	return fmt.Sprintf("%s%s", p.String(), ext)
}

// Zip packages downloads into a single zip archive.
func Zip(downloads []*models.Download) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, d := range downloads {
		entry, err := w.Create(d.Filename)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", d.Filename, err)
		}
		if _, err := entry.Write(d.Bytes); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", d.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
