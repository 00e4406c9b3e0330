package ingest

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/rs/zerolog"

	"github.com/partycluster/partycluster/internal/models"
)

// Parser converts Atom feeds carrying GeoRSS points into events. An
// entry becomes an event only when it has an author name and URI, a
// parseable published timestamp and a georss:point extension; anything
// else is skipped so the store only ever receives well-formed records.
type Parser struct {
	parser atom.Parser
	logger zerolog.Logger
}

// NewParser creates a new Atom feed parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// Parse extracts events from a raw Atom document. A feed with zero
// usable entries yields an empty slice, not an error.
func (p *Parser) Parse(data []byte) ([]models.Event, error) {
	feed, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var events []models.Event
	for _, entry := range feed.Entries {
		event, ok := p.entryToEvent(entry)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (p *Parser) entryToEvent(entry *atom.Entry) (models.Event, bool) {
	if len(entry.Authors) == 0 {
		p.skip(entry, "no author")
		return models.Event{}, false
	}
	author := entry.Authors[0]
	if author.Name == "" || author.URI == "" {
		p.skip(entry, "author missing name or uri")
		return models.Event{}, false
	}

	if entry.PublishedParsed == nil {
		p.skip(entry, "missing or unparseable published timestamp")
		return models.Event{}, false
	}

	latitude, longitude, ok := p.geoRSSPoint(entry)
	if !ok {
		return models.Event{}, false
	}

	return models.Event{
		Name:      author.Name,
		URI:       author.URI,
		Timestamp: *entry.PublishedParsed,
		Latitude:  latitude,
		Longitude: longitude,
	}, true
}

// geoRSSPoint extracts the "lat lon" pair from the entry's georss:point
// extension.
func (p *Parser) geoRSSPoint(entry *atom.Entry) (float64, float64, bool) {
	georss, ok := entry.Extensions["georss"]
	if !ok {
		p.skip(entry, "no georss extension")
		return 0, 0, false
	}
	points := georss["point"]
	if len(points) == 0 {
		p.skip(entry, "no georss point")
		return 0, 0, false
	}

	fields := strings.Fields(points[0].Value)
	if len(fields) < 2 {
		p.skip(entry, "malformed georss point")
		return 0, 0, false
	}
	latitude, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		p.skip(entry, "malformed latitude")
		return 0, 0, false
	}
	longitude, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		p.skip(entry, "malformed longitude")
		return 0, 0, false
	}
	return latitude, longitude, true
}

func (p *Parser) skip(entry *atom.Entry, reason string) {
	p.logger.Debug().
		Str("entry", entry.Title).
		Str("reason", reason).
		Msg("Skipping feed entry")
}
