package metatag

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikepea/marks/pkg/marks/errs"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (compatible; marks/1.0; +https://github.com/mikepea/marks)"

// maxBodySize bounds how much of a page is read. Head metadata sits well
// inside it.
const maxBodySize = 1 << 20

// Loader fetches pages and extracts their metadata.
type Loader struct {
	client    *http.Client
	userAgent string
}

// NewLoader creates a loader with the given request timeout and user agent.
func NewLoader(timeout time.Duration, userAgent string) *Loader {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Loader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch returns the body of url. Network failures and non-2xx responses are
// reported as errs.ErrFetch.
func (l *Loader) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrFetch, err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", errs.ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", errs.ErrFetch, url, err)
	}
	return string(body), nil
}

// Load fetches url and extracts its metadata.
func (l *Loader) Load(ctx context.Context, url string) (*Metatag, error) {
	body, err := l.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Extract(body, url), nil
}
