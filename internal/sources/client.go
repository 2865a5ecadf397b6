package sources

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// HTTPClient is the shared fetch client for JSON/HTML sources. It sets the
// configured headers and transparently decodes gzip, brotli and zstd bodies —
// several of the sites serve br or zstd regardless of Accept-Encoding.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
}

func NewHTTPClient(cfg *config.SourcesConfig, timeout time.Duration) *HTTPClient {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
		headers:   cfg.Headers,
	}
}

// Get fetches the URL and returns the decoded body.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, br, zstd")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return decodeBody(resp)
}

func decodeBody(resp *http.Response) ([]byte, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return readAll(gz, "gzipped")
	case "br":
		return readAll(brotli.NewReader(resp.Body), "brotli")
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		return readAll(zr, "zstd")
	default:
		return readAll(resp.Body, "plain")
	}
}

func readAll(r io.Reader, kind string) ([]byte, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s body: %w", kind, err)
	}
	return body, nil
}
