package clustering_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partycluster/partycluster/internal/clustering"
	"github.com/partycluster/partycluster/internal/geo"
	"github.com/partycluster/partycluster/internal/models"
)

var noon = time.Date(2012, 6, 1, 12, 0, 0, 0, time.UTC)

// lineEvent places an event on a synthetic 1-D line, abusing the
// longitude field as the position so tests can use exact distances.
func lineEvent(name string, position float64) models.Event {
	return models.Event{
		Name:      name,
		URI:       "https://example.org/" + name,
		Timestamp: noon,
		Longitude: position,
	}
}

// lineMetric is the absolute position difference on the synthetic line.
func lineMetric(a, b models.Event) float64 {
	return math.Abs(a.Longitude - b.Longitude)
}

// names flattens a partition to member names for readable assertions.
func names(clusters []models.Cluster) [][]string {
	out := make([][]string, len(clusters))
	for i, cluster := range clusters {
		out[i] = make([]string, len(cluster))
		for j, event := range cluster {
			out[i][j] = event.Name
		}
	}
	return out
}

// TestCut_EmptyInput tests that an empty event set yields an empty
// partition.
func TestCut_EmptyInput(t *testing.T) {
	d := clustering.New(nil, lineMetric)
	assert.Empty(t, d.Cut(100))
}

// TestCut_SingleEvent tests that a single event comes out as one
// singleton cluster.
func TestCut_SingleEvent(t *testing.T) {
	d := clustering.New([]models.Event{lineEvent("a", 0)}, lineMetric)
	assert.Equal(t, [][]string{{"a"}}, names(d.Cut(0)))
}

// TestCut_SingleLinkageChain tests that single linkage merges chains of
// pairwise-close events even when the chain ends are far apart.
func TestCut_SingleLinkageChain(t *testing.T) {
	events := []models.Event{
		lineEvent("a", 0),
		lineEvent("b", 1),
		lineEvent("c", 2),
		lineEvent("d", 10),
	}
	d := clustering.New(events, lineMetric)

	// a-b and b-c are 1 apart; a-c is 2 apart but joins through b
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d"}}, names(d.Cut(1.5)))
}

// TestCut_EquilateralTriangle tests the 50-meter triangle: three events
// 50 apart pairwise all merge at threshold 100 into one cluster of 3.
func TestCut_EquilateralTriangle(t *testing.T) {
	events := []models.Event{
		lineEvent("a", 0),
		lineEvent("b", 1),
		lineEvent("c", 2),
	}
	equilateral := func(a, b models.Event) float64 {
		if a.Name == b.Name {
			return 0
		}
		return 50
	}

	d := clustering.New(events, equilateral)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, names(d.Cut(100)))
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, names(d.Cut(49)))
}

// TestCut_DisconnectedPairsNeverMerge tests that pairs at infinite
// distance stay singletons at any threshold.
func TestCut_DisconnectedPairsNeverMerge(t *testing.T) {
	events := []models.Event{
		lineEvent("a", 0),
		lineEvent("b", 1),
		lineEvent("c", 2),
	}
	disconnected := func(a, b models.Event) float64 {
		return math.Inf(1)
	}

	d := clustering.New(events, disconnected)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, names(d.Cut(math.MaxFloat64)))
}

// TestCut_Deterministic tests that repeated runs over the same input
// produce identical partitions, including under distance ties.
func TestCut_Deterministic(t *testing.T) {
	// All gaps equal: every merge is a tie
	events := []models.Event{
		lineEvent("a", 0),
		lineEvent("b", 5),
		lineEvent("c", 10),
		lineEvent("d", 15),
	}

	first := clustering.New(events, lineMetric).Cut(5)
	for i := 0; i < 10; i++ {
		again := clustering.New(events, lineMetric).Cut(5)
		require.Equal(t, first, again)
	}
}

// TestCut_Refinement tests that every cluster at a smaller threshold is
// a subset of exactly one cluster at a larger threshold.
func TestCut_Refinement(t *testing.T) {
	events := []models.Event{
		lineEvent("a", 0),
		lineEvent("b", 1),
		lineEvent("c", 5),
		lineEvent("d", 6),
		lineEvent("e", 30),
	}
	d := clustering.New(events, lineMetric)

	fine := d.Cut(1)
	coarse := d.Cut(10)

	for _, small := range fine {
		containers := 0
		for _, big := range coarse {
			if isSubset(small, big) {
				containers++
			}
		}
		assert.Equal(t, 1, containers, "cluster %v must sit inside exactly one coarse cluster", small)
	}
}

// TestCut_CausallyDisconnectedEvents tests the engine against the real
// space-time metric: same coordinates with minutes between check-ins
// puts every pair outside its light cone, so nothing merges.
func TestCut_CausallyDisconnectedEvents(t *testing.T) {
	spot := func(name string, offset time.Duration) models.Event {
		return models.Event{
			Name:      name,
			URI:       "https://example.org/" + name,
			Timestamp: noon.Add(offset),
			Latitude:  52.5200,
			Longitude: 13.4050,
		}
	}
	events := []models.Event{
		spot("a", 0),
		spot("b", 5*time.Minute),
		spot("c", 10*time.Minute),
	}

	d := clustering.New(events, geo.SpacelikeInterval)
	assert.Len(t, d.Cut(1e12), 3)
}

// TestCut_FarApartSameTime tests that two events about 5 km apart at the
// same instant stay separate under a 1000 threshold.
func TestCut_FarApartSameTime(t *testing.T) {
	a := models.Event{Name: "a", URI: "u/a", Timestamp: noon, Latitude: 0.0, Longitude: 0.0}
	b := models.Event{Name: "b", URI: "u/b", Timestamp: noon, Latitude: 0.045, Longitude: 0.0}

	d := clustering.New([]models.Event{a, b}, geo.SpacelikeInterval)
	assert.Len(t, d.Cut(1000), 2)
}

func isSubset(small, big models.Cluster) bool {
	members := make(map[models.Key]bool, len(big))
	for _, event := range big {
		members[event.Key()] = true
	}
	for _, event := range small {
		if !members[event.Key()] {
			return false
		}
	}
	return true
}
