package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/partycluster/partycluster/internal/geo"
	"github.com/partycluster/partycluster/internal/models"
	"github.com/partycluster/partycluster/pkg/geocode"
)

// Announcer turns qualifying clusters into party announcements. It owns
// all user-facing wording; the clustering engine only hands it finished
// partitions. Reverse geocoding happens here, once per distinct member
// coordinate, and only after clustering is final.
type Announcer struct {
	geocoder geocode.Provider // nil means announce raw coordinates
	minSize  int
	out      io.Writer
	logger   zerolog.Logger
}

// NewAnnouncer creates a new Announcer instance. Clusters smaller than
// minSize are discarded as noise.
func NewAnnouncer(geocoder geocode.Provider, minSize int, out io.Writer, logger zerolog.Logger) *Announcer {
	return &Announcer{
		geocoder: geocoder,
		minSize:  minSize,
		out:      out,
		logger:   logger,
	}
}

// Announce writes one announcement per qualifying cluster.
func (a *Announcer) Announce(ctx context.Context, clusters []models.Cluster) {
	reported := 0
	for _, cluster := range clusters {
		if len(cluster) < a.minSize {
			continue
		}
		a.announce(ctx, cluster)
		reported++
	}
	a.logger.Info().
		Int("clusters", len(clusters)).
		Int("reported", reported).
		Msg("Reporting finished")
}

func (a *Announcer) announce(ctx context.Context, cluster models.Cluster) {
	members := make([]models.Event, len(cluster))
	copy(members, cluster)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Timestamp.Before(members[j].Timestamp)
	})

	names := make([]string, len(members))
	times := make([]string, len(members))
	for i, member := range members {
		names[i] = member.Name
		times[i] = member.Timestamp.Format("15:04")
	}

	span := time.Duration(geo.MaxTemporalDistance(members)) * time.Second
	fmt.Fprintf(a.out, "Possible party with %s within %d meters of %s (%s, spanning %s).\n",
		joinNatural(names),
		int(geo.MaxDistance(members)),
		joinNatural(a.placeNames(ctx, members)),
		strings.Join(times, ", "),
		span,
	)
}

// placeNames resolves one place name per distinct member coordinate,
// degrading to the raw coordinates when the geocoder is absent or
// fails. Duplicate names are collapsed so a gathering inside one town
// is announced with the town named once.
func (a *Announcer) placeNames(ctx context.Context, members []models.Event) []string {
	var names []string
	seenCoord := make(map[[2]float64]bool)
	seenName := make(map[string]bool)
	for _, member := range members {
		coord := [2]float64{member.Latitude, member.Longitude}
		if seenCoord[coord] {
			continue
		}
		seenCoord[coord] = true

		name := fmt.Sprintf("%.5f, %.5f", member.Latitude, member.Longitude)
		if a.geocoder != nil {
			resolved, err := a.geocoder.PlaceName(ctx, member.Latitude, member.Longitude)
			if err != nil {
				a.logger.Warn().
					Err(err).
					Float64("latitude", member.Latitude).
					Float64("longitude", member.Longitude).
					Msg("Failed to resolve place name")
			} else {
				name = resolved
			}
		}
		if seenName[name] {
			continue
		}
		seenName[name] = true
		names = append(names, name)
	}
	return names
}

// joinNatural joins items as "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
