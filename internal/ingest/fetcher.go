package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// cachedFeed is one fetched feed body together with its fetch time.
type cachedFeed struct {
	body      []byte
	fetchedAt time.Time
}

// Fetcher retrieves feed documents over HTTP. Responses are cached per
// URL for a fixed window, so repeated fetches within the window serve
// the cached body; feed content may therefore be stale up to the
// window. The cache is safe for concurrent fetchers.
type Fetcher struct {
	client *http.Client
	cache  cmap.ConcurrentMap[string, cachedFeed]
	window time.Duration
	logger zerolog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewFetcher creates a Fetcher with the given per-request timeout and
// cache window.
func NewFetcher(timeout, window time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		cache:  cmap.New[cachedFeed](),
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch returns the body of the feed at the given URL, from cache when
// a copy fetched within the cache window exists.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if cached, ok := f.cache.Get(feedURL); ok {
		if f.now().Sub(cached.fetchedAt) < f.window {
			f.logger.Debug().Str("url", feedURL).Msg("Serving feed from cache")
			return cached.body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", feedURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", feedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed %s: %w", feedURL, err)
	}

	f.cache.Set(feedURL, cachedFeed{body: body, fetchedAt: f.now()})
	return body, nil
}
