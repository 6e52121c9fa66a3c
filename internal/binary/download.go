package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "qjsup/1.0"
	// maxFetchSize bounds documents read fully into memory (manifests, checksums).
	maxFetchSize = 1 << 20
)

// Downloader handles HTTP downloads. Every call makes exactly one attempt.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables the timeout.
func WithTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.client.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) DownloaderOption {
	return func(d *Downloader) {
		if userAgent != "" {
			d.userAgent = userAgent
		}
	}
}

// NewDownloader creates a new downloader
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch GETs url and returns the body. It is meant for small documents.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrDownloadFailed, err)
	}
	if len(body) > maxFetchSize {
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", ErrDownloadFailed, url, maxFetchSize)
	}
	return body, nil
}

// DownloadTemp downloads url into a new temporary file and returns its path.
// The caller owns the file and must remove it.
func (d *Downloader) DownloadTemp(ctx context.Context, url string, progress ProgressFunc) (string, error) {
	tmpFile, err := os.CreateTemp("", "qjsup-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := d.copyTo(ctx, url, tmpFile, progress); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", err
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmpPath, nil
}

// copyTo streams url into w, reporting progress per chunk.
func (d *Downloader) copyTo(ctx context.Context, url string, w io.Writer, progress ProgressFunc) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if progress != nil && resp.ContentLength > 0 {
		progress(0)
		body = &progressReader{r: resp.Body, total: resp.ContentLength, report: progress}
	}

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("%w: copy response body: %v", ErrDownloadFailed, err)
	}
	return nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: unexpected status code: %d", ErrDownloadFailed, url, resp.StatusCode)
	}

	return resp, nil
}

// progressReader reports (read*100)/total after every chunk.
type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(int((p.read * 100) / p.total))
	}
	return n, err
}

// fileExists checks if a file exists and is not empty
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
