package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/partycluster/partycluster/internal/clustering"
	"github.com/partycluster/partycluster/internal/geo"
	"github.com/partycluster/partycluster/internal/ingest"
	"github.com/partycluster/partycluster/internal/report"
	"github.com/partycluster/partycluster/internal/store"
	"github.com/partycluster/partycluster/internal/utils"
	"github.com/partycluster/partycluster/pkg/file"
	"github.com/partycluster/partycluster/pkg/geocode"
)

const usage = `Usage: partycluster [-config path] FEEDLIST THRESHOLD

FEEDLIST is a file with one Atom feed URL per line.
THRESHOLD is the maximum causal distance between party attendees, in
meters-equivalent units (1 meter per second of temporal separation).
`

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	// Validate arguments before any processing starts
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	feedListPath := flag.Arg(0)
	threshold, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil || threshold < 0 {
		fmt.Fprintf(os.Stderr, "invalid threshold %q: must be a non-negative number\n\n", flag.Arg(1))
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration from file, falling back to defaults
	fileClient := file.NewFileService()
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging, tagging every line with a run ID
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.New().String()).
		Logger()

	feedURLs, err := fileClient.ReadLines(feedListPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", feedListPath).Msg("Failed to read feed list")
	}

	geocoder, err := buildGeocoder(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize geocoding provider")
	}

	ctx := context.Background()

	// Ingest all feeds into the deduplicating event store
	eventStore := store.NewEventStore()
	fetcher := ingest.NewFetcher(config.Ingest.HTTPTimeout.Std(), config.Ingest.CacheWindow.Std(), logger)
	parser := ingest.NewParser(logger)
	ingestService := ingest.NewService(fetcher, parser, eventStore,
		config.Ingest.Workers, config.Ingest.Progress, logger)
	ingestService.Run(ctx, feedURLs)

	// Cluster the full, stable event set and cut at the threshold
	events := eventStore.Events()
	logger.Info().
		Int("events", len(events)).
		Float64("threshold", threshold).
		Msg("Clustering events")
	dendrogram := clustering.New(events, geo.SpacelikeInterval)
	clusters := dendrogram.Cut(threshold)

	announcer := report.NewAnnouncer(geocoder, config.Report.MinClusterSize, os.Stdout, logger)
	announcer.Announce(ctx, clusters)
}

// buildGeocoder selects the reverse-geocoding provider from the
// configuration. A nil provider means announcements carry raw
// coordinates instead of place names.
func buildGeocoder(config *utils.Config) (geocode.Provider, error) {
	switch config.Geocode.Provider {
	case "google":
		if config.Geocode.MapsAPIKey == "" {
			return nil, fmt.Errorf("geocode provider google requires maps_api_key")
		}
		return geocode.NewGoogleGeocodeProvider(config.Geocode.MapsAPIKey)
	case "geonames":
		return geocode.NewGeoNamesProvider(config.Geocode.GeoNamesUsername, config.Geocode.Timeout.Std()), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown geocode provider %q", config.Geocode.Provider)
	}
}
