package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/corredora-austral/policy-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	Retry         resilience.RetryConfig
}

// HTTPFetcher downloads over HTTP(S) with retry on transient failures and a
// fixed rate limit, so refresh jobs stay polite towards insurer portals.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = "policy-cli/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
		opts.Retry.OnRetry = resilience.RetryLogger("fetch", "download")
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
	}
}

// Download fetches the URL and returns the response body.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	body, _, err := f.downloadConditional(ctx, rawURL, "")
	return body, err
}

// DownloadToFile fetches the URL into path. Returns bytes written.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL, path string) (int64, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "fetch: create file")
	}
	defer file.Close()

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "fetch: write file")
	}
	zap.L().Debug("snapshot downloaded",
		zap.String("url", rawURL),
		zap.String("path", path),
		zap.Int64("bytes", n),
	)
	return n, nil
}

// DownloadIfChanged fetches the URL only when its ETag differs from etag.
// Returns (body, newETag, changed). When the server answers 304 the body is
// nil and changed is false.
func (f *HTTPFetcher) DownloadIfChanged(ctx context.Context, rawURL, etag string) (io.ReadCloser, string, bool, error) {
	body, newETag, err := f.downloadConditional(ctx, rawURL, etag)
	if err != nil {
		return nil, "", false, err
	}
	if body == nil {
		return nil, etag, false, nil
	}
	return body, newETag, true, nil
}

// DownloadToFileIfChanged fetches the URL into path unless the server still
// serves the content identified by etag. Returns bytes written, the ETag to
// remember for the next refresh, and whether the file was rewritten.
func (f *HTTPFetcher) DownloadToFileIfChanged(ctx context.Context, rawURL, path, etag string) (int64, string, bool, error) {
	body, newETag, changed, err := f.DownloadIfChanged(ctx, rawURL, etag)
	if err != nil || !changed {
		return 0, newETag, false, err
	}
	defer body.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, "", false, eris.Wrap(err, "fetch: create file")
	}
	defer file.Close()

	n, err := io.Copy(file, body)
	if err != nil {
		return n, "", false, eris.Wrap(err, "fetch: write file")
	}
	zap.L().Debug("snapshot refreshed",
		zap.String("url", rawURL),
		zap.String("path", path),
		zap.Int64("bytes", n),
	)
	return n, newETag, true, nil
}

func (f *HTTPFetcher) downloadConditional(ctx context.Context, rawURL, etag string) (io.ReadCloser, string, error) {
	var newETag string
	body, err := resilience.DoVal(ctx, f.opts.Retry, func(ctx context.Context) (io.ReadCloser, error) {
		b, tag, err := f.get(ctx, rawURL, etag)
		newETag = tag
		return b, err
	})
	return body, newETag, err
}

// get performs one GET attempt. A nil body with nil error means 304.
func (f *HTTPFetcher) get(ctx context.Context, rawURL, etag string) (io.ReadCloser, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", eris.Wrap(err, "fetch: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", eris.Wrapf(err, "fetch: get %s", rawURL)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, resp.Header.Get("ETag"), nil
	case etag != "" && resp.StatusCode == http.StatusNotModified:
		resp.Body.Close()
		return nil, etag, nil
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		resp.Body.Close()
		return nil, "", resilience.NewTransientError(
			eris.Errorf("fetch: http %d from %s", resp.StatusCode, rawURL), resp.StatusCode)
	default:
		resp.Body.Close()
		return nil, "", eris.Errorf("fetch: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
}
