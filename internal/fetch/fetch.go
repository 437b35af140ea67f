// Package fetch loads textvec sources: local files, http(s) URLs and standard
// input ("-").
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for Options.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "textvec/0.1"
	MaxFileSizeBytes = 50 * 1024 * 1024  // files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // responses, with or without Content-Length
)

// Options configures a Fetcher. Zero values select the defaults above.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxFileBytes int64
	MaxHTTPBytes int64
	Stdin        io.Reader // os.Stdin when nil
}

// Fetcher opens sources. It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxFile   int64
	maxHTTP   int64
	stdin     io.Reader
}

// New returns a Fetcher whose HTTP client splits opts.Timeout between the
// connection phases.
func New(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: timeout / 6}).DialContext,
				TLSHandshakeTimeout:   timeout / 6,
				ResponseHeaderTimeout: timeout / 2,
				DisableKeepAlives:     true,
			},
		},
		userAgent: opts.UserAgent,
		maxFile:   opts.MaxFileBytes,
		maxHTTP:   opts.MaxHTTPBytes,
		stdin:     opts.Stdin,
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	if f.maxFile <= 0 {
		f.maxFile = MaxFileSizeBytes
	}
	if f.maxHTTP <= 0 {
		f.maxHTTP = MaxHTTPSizeBytes
	}
	if f.stdin == nil {
		f.stdin = os.Stdin
	}
	return f
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// limitedReadCloser fails reads past a byte budget instead of truncating.
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// Open returns a reader for source:
//   - "-" reads from standard input
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
func (f *Fetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{ReadCloser: io.NopCloser(f.stdin), N: f.maxFile, source: "stdin"}, nil
	case IsURL(source):
		return f.openURL(ctx, source)
	default:
		return f.openFile(source)
	}
}

// ReadAll reads source fully.
func (f *Fetcher) ReadAll(ctx context.Context, source string) ([]byte, error) {
	r, err := f.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", source, err)
	}
	slog.Debug("Fetched source", "source", source, "bytes", len(data))
	return data, nil
}

func (f *Fetcher) openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > f.maxHTTP {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, f.maxHTTP)
		}
	}
	return &limitedReadCloser{ReadCloser: resp.Body, N: f.maxHTTP, source: url}, nil
}

func (f *Fetcher) openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.Size() > f.maxFile {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), f.maxFile)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return file, nil
}
