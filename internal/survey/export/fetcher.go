package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageFetcher resolves a record's linked image URL to bytes. Fetches are
// soft-failing: the PDF renderer drops an image it cannot fetch in time
// instead of failing the record.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPImageFetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
