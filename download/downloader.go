// Package download streams resolved media URLs to disk.
package download

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/rs/zerolog"
)

const (
	partialSuffix    = ".partial"
	progressInterval = 5 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Error indicates a transfer failed: non-2xx status, truncated body, or
// a destination write problem.
type Error struct {
	URL    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download of %s failed: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Downloader fetches media files over HTTP.
type Downloader struct {
	client *grab.Client
	logger zerolog.Logger
}

// New creates a Downloader. No overall timeout is set on the HTTP
// client since movie bodies take arbitrarily long to stream.
func New(logger zerolog.Logger) *Downloader {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	return &Downloader{
		client: &grab.Client{
			UserAgent:  userAgent,
			HTTPClient: &http.Client{Transport: tr},
		},
		logger: logger,
	}
}

// Fetch streams the URL into destDir under finalName. The body is
// written to a temporary name and only renamed to finalName after the
// full transfer succeeds, so an interrupted download never appears
// under the canonical name. Returns the final path.
func (d *Downloader) Fetch(ctx context.Context, rawURL, destDir, finalName string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &Error{URL: rawURL, Reason: "could not create destination directory", Err: err}
	}

	partialPath := filepath.Join(destDir, finalName+partialSuffix)
	finalPath := filepath.Join(destDir, finalName)

	req, err := grab.NewRequest(partialPath, rawURL)
	if err != nil {
		return "", &Error{URL: rawURL, Reason: "invalid download request", Err: err}
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	d.logger.Info().Str("url", rawURL).Str("dest", finalPath).Msg("Starting download")

	resp := d.client.Do(req)

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

Loop:
	for {
		select {
		case <-ticker.C:
			d.logger.Debug().
				Int64("bytes", resp.BytesComplete()).
				Int64("total", resp.Size()).
				Float64("percent", 100*resp.Progress()).
				Msg("Download progress")
		case <-resp.Done:
			break Loop
		}
	}

	if err := resp.Err(); err != nil {
		os.Remove(partialPath)
		return "", &Error{URL: rawURL, Reason: "transfer failed", Err: err}
	}

	if err := os.Rename(partialPath, finalPath); err != nil {
		os.Remove(partialPath)
		return "", &Error{URL: rawURL, Reason: "could not move completed file into place", Err: err}
	}

	d.logger.Info().
		Str("path", finalPath).
		Int64("bytes", resp.BytesComplete()).
		Msg("Download complete")

	return finalPath, nil
}
