package geo_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/partycluster/partycluster/internal/geo"
	"github.com/partycluster/partycluster/internal/models"
)

func at(lat, lng float64, t time.Time) models.Event {
	return models.Event{
		Name:      "someone",
		URI:       "https://example.org/someone",
		Timestamp: t,
		Latitude:  lat,
		Longitude: lng,
	}
}

var noon = time.Date(2012, 6, 1, 12, 0, 0, 0, time.UTC)

// TestDistance_SymmetricAndZero tests symmetry and the identical
// coordinates case.
func TestDistance_SymmetricAndZero(t *testing.T) {
	a := at(52.5200, 13.4050, noon)
	b := at(48.1374, 11.5755, noon)

	assert.Equal(t, geo.Distance(a, b), geo.Distance(b, a))
	assert.Greater(t, geo.Distance(a, b), 0.0)
	assert.Equal(t, 0.0, geo.Distance(a, a))
}

// TestDistance_MeridianDegree tests that one degree of latitude is about
// 111 km on the WGS84 ellipsoid.
func TestDistance_MeridianDegree(t *testing.T) {
	a := at(52.0, 13.0, noon)
	b := at(53.0, 13.0, noon)

	d := geo.Distance(a, b)
	assert.Greater(t, d, 110_000.0)
	assert.Less(t, d, 112_000.0)
}

// TestTemporalDistance tests symmetry, the zero case and the unit.
func TestTemporalDistance(t *testing.T) {
	a := at(52.52, 13.405, noon)
	b := at(52.52, 13.405, noon.Add(10*time.Minute))

	assert.Equal(t, 600.0, geo.TemporalDistance(a, b))
	assert.Equal(t, geo.TemporalDistance(a, b), geo.TemporalDistance(b, a))
	assert.Equal(t, 0.0, geo.TemporalDistance(a, a))
}

// TestSpacelikeInterval_FiniteInsideLightCone tests that the interval is
// finite exactly when temporal separation does not exceed spatial
// separation.
func TestSpacelikeInterval_FiniteInsideLightCone(t *testing.T) {
	// ~111 meters apart
	a := at(52.5200, 13.4050, noon)
	b := at(52.5210, 13.4050, noon.Add(50*time.Second))

	interval := geo.SpacelikeInterval(a, b)
	assert.False(t, math.IsInf(interval, 1))

	spatial := geo.Distance(a, b)
	temporal := geo.TemporalDistance(a, b)
	assert.InDelta(t, math.Sqrt(spatial*spatial-temporal*temporal), interval, 1e-9)
}

// TestSpacelikeInterval_InfiniteOutsideLightCone tests that a pair whose
// temporal separation exceeds its spatial separation gets an infinite
// interval rather than an error.
func TestSpacelikeInterval_InfiniteOutsideLightCone(t *testing.T) {
	// ~111 meters apart but 200 seconds apart: nobody walks that slowly
	// and still checks in twice
	a := at(52.5200, 13.4050, noon)
	b := at(52.5210, 13.4050, noon.Add(200*time.Second))

	assert.True(t, math.IsInf(geo.SpacelikeInterval(a, b), 1))

	// Same place, different times is the degenerate case
	c := at(52.5200, 13.4050, noon.Add(10*time.Minute))
	assert.True(t, math.IsInf(geo.SpacelikeInterval(a, c), 1))
}

// TestSpacelikeInterval_ZeroTemporal tests that with equal timestamps
// the interval equals the spatial distance.
func TestSpacelikeInterval_ZeroTemporal(t *testing.T) {
	a := at(52.5200, 13.4050, noon)
	b := at(52.5210, 13.4060, noon)

	assert.InDelta(t, geo.Distance(a, b), geo.SpacelikeInterval(a, b), 1e-9)
}

// TestMaxDistance tests the pairwise maximum helpers, including the
// fewer-than-two-events cases.
func TestMaxDistance(t *testing.T) {
	a := at(52.5200, 13.4050, noon)
	b := at(52.5210, 13.4050, noon.Add(time.Minute))
	c := at(52.5230, 13.4050, noon.Add(3*time.Minute))

	events := []models.Event{a, b, c}
	assert.InDelta(t, geo.Distance(a, c), geo.MaxDistance(events), 1e-9)
	assert.Equal(t, 180.0, geo.MaxTemporalDistance(events))

	assert.Equal(t, 0.0, geo.MaxDistance(nil))
	assert.Equal(t, 0.0, geo.MaxDistance([]models.Event{a}))
	assert.Equal(t, 0.0, geo.MaxTemporalDistance([]models.Event{a}))
}
