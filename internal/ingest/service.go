package ingest

import (
	"context"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/partycluster/partycluster/internal/models"
	"github.com/partycluster/partycluster/internal/store"
	"github.com/partycluster/partycluster/internal/utils"
)

// Service drives ingestion: it fetches and parses all feeds from a feed
// list concurrently on a bounded worker pool and merges the resulting
// event batches into the event store. Because the store's merge rule is
// commutative (newest timestamp wins), fetch completion order does not
// affect final store contents.
type Service struct {
	fetcher  *Fetcher
	parser   *Parser
	store    *store.EventStore
	workers  int
	progress bool
	logger   zerolog.Logger
}

// NewService creates a new ingestion Service instance with the provided
// collaborators.
func NewService(fetcher *Fetcher, parser *Parser, eventStore *store.EventStore,
	workers int, progress bool, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		parser:   parser,
		store:    eventStore,
		workers:  workers,
		progress: progress,
		logger:   logger,
	}
}

// Run ingests all feeds. A feed that fails to fetch or parse is logged
// and skipped; the run continues with the remaining feeds.
func (s *Service) Run(ctx context.Context, feedURLs []string) {
	results := cmap.New[[]models.Event]()

	var bar *progressbar.ProgressBar
	if s.progress {
		bar = progressbar.Default(int64(len(feedURLs)), "feeds")
	}

	pool := utils.NewWorkerPool(s.workers)
	for _, feedURL := range feedURLs {
		pool.Submit(func() {
			defer func() {
				if bar != nil {
					bar.Add(1)
				}
			}()
			events, err := s.ingestFeed(ctx, feedURL)
			if err != nil {
				s.logger.Warn().Err(err).Str("url", feedURL).Msg("Skipping feed")
				return
			}
			results.Set(feedURL, events)
		})
	}
	pool.Shutdown()

	// The merge itself is sequential; iterating in feed-list order keeps
	// logs reproducible even though the merge rule makes order irrelevant.
	for _, feedURL := range feedURLs {
		events, ok := results.Get(feedURL)
		if !ok {
			continue
		}
		s.store.Update(events)
		s.logger.Debug().
			Str("url", feedURL).
			Int("events", len(events)).
			Msg("Merged feed into event store")
	}

	s.logger.Info().
		Int("feeds", len(feedURLs)).
		Int("authors", s.store.Len()).
		Msg("Ingestion finished")
}

func (s *Service) ingestFeed(ctx context.Context, feedURL string) ([]models.Event, error) {
	body, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(body)
}
