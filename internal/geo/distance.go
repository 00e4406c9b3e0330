package geo

import (
	"math"

	"github.com/partycluster/partycluster/internal/models"
	"github.com/tidwall/geodesic"
)

// Distance returns the geodesic surface distance between two events in
// meters, computed on the WGS84 ellipsoid. It is symmetric and returns
// 0 for identical coordinates.
func Distance(a, b models.Event) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &meters, nil, nil)
	return meters
}

// TemporalDistance returns the absolute difference between the two
// events' timestamps in seconds.
func TemporalDistance(a, b models.Event) float64 {
	return math.Abs(a.Timestamp.Sub(b.Timestamp).Seconds())
}

// SpacelikeInterval returns the Minkowski-style space-time interval
// between two events, sqrt(spatial² − temporal²), with spatial distance
// in meters, temporal distance in seconds and a causal speed limit of
// 1 m/s (walking pace). A pair whose temporal separation exceeds its
// spatial separation is causally disconnected: no attendee could have
// been at both check-ins, and the interval is +Inf so such pairs never
// merge at any finite threshold.
func SpacelikeInterval(a, b models.Event) float64 {
	spatial := Distance(a, b)
	temporal := TemporalDistance(a, b)
	radicand := spatial*spatial - temporal*temporal
	if radicand < 0 {
		return math.Inf(1)
	}
	return math.Sqrt(radicand)
}

// MaxDistance returns the largest pairwise geodesic distance over all
// distinct pairs of events, in meters. It is 0 for fewer than two
// events. Used to report the spatial extent of a cluster.
func MaxDistance(events []models.Event) float64 {
	return maxPairwise(events, Distance)
}

// MaxTemporalDistance returns the largest pairwise temporal distance
// over all distinct pairs of events, in seconds. It is 0 for fewer than
// two events.
func MaxTemporalDistance(events []models.Event) float64 {
	return maxPairwise(events, TemporalDistance)
}

func maxPairwise(events []models.Event, metric func(a, b models.Event) float64) float64 {
	var maximum float64
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			if d := metric(events[i], events[j]); d > maximum {
				maximum = d
			}
		}
	}
	return maximum
}
