// Package fetch downloads reference-data snapshots from the locations
// insurers publish them at: HTTPS endpoints and the odd legacy FTP portal.
// Parsing what was downloaded is the registry's job.
package fetch

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher downloads one remote snapshot file.
type Fetcher interface {
	// Download fetches the URL and returns the response body. The caller
	// must close it.
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL into path and returns bytes written.
	DownloadToFile(ctx context.Context, rawURL, path string) (int64, error)
}

// ForURL picks the fetcher for a snapshot URL by scheme.
func ForURL(rawURL string) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url %s", rawURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(HTTPOptions{}), nil
	case "ftp":
		return NewFTPFetcher(FTPOptions{}), nil
	default:
		return nil, eris.Errorf("fetch: unsupported scheme %q", u.Scheme)
	}
}
