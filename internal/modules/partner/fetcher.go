package partner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

// maxPriceBookBytes caps the fetched document size.
const maxPriceBookBytes = 10 << 20

// Fetcher retrieves a partner's price-book document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a Fetcher with a bounded request timeout.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return &httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %v: %w", err, domain.ErrInvalidInput)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price-book: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch price-book: status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPriceBookBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read price-book: %v: %w", err, domain.ErrUpstream)
	}
	if len(data) > maxPriceBookBytes {
		return nil, fmt.Errorf("price-book exceeds %d bytes: %w", maxPriceBookBytes, domain.ErrInvalidInput)
	}
	return data, nil
}
