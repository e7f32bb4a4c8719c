package worldevents

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// Fetcher retrieves a feed document.
// This interface allows for mocking in tests and decoupling from the network layer.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher implements Fetcher using the standard net/http library.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a new instance of HTTPFetcher with configured timeouts.
// Per-lookup deadlines come from the caller's context and are usually much shorter.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads a JSON document and returns at most config.MaxHTTPResponseSize bytes.
// The URL is sanitized for logging since query parameters may carry API keys.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	// Parse the URL to validate it and sanitize it for logs.
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	// Security check: feeds are configurable, so refuse anything but HTTP or HTTPS
	// (file://, gopher:// ...) before a request is built.
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Construct a safe URL for logging: the news archive passes its API key
	// as a query parameter, which must never reach the log file.
	safeURL := u.Scheme + "://" + u.Host + u.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompWorld),
		slog.String(config.LogKeyURL, safeURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Wikipedia's API etiquette requires an identifying User-Agent.
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Ensure we don't leak connections on any path.

	if resp.StatusCode != http.StatusOK {
		log.Debug("Feed returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFeedStatus, resp.StatusCode, resp.Status)
	}

	// Cap the read to protect against oversized or hostile payloads.
	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxHTTPResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	log.Debug("Feed downloaded", slog.Int(config.LogKeySizeBytes, len(body)))
	return body, nil
}
