package clustering

import (
	"math"

	"github.com/partycluster/partycluster/internal/models"
)

// DistanceFunc computes the distance between two events. Production code
// passes geo.SpacelikeInterval; tests may inject simpler metrics.
type DistanceFunc func(a, b models.Event) float64

// node is one cluster in the merge tree. Leaves are singletons at height
// 0; internal nodes record the distance at which their two children were
// merged. members holds event indices in ascending order.
type node struct {
	height  float64
	left    *node
	right   *node
	members []int
}

// Dendrogram is the merge hierarchy produced by agglomerative clustering
// over a static batch of events. Pairs at infinite distance are never
// merged, so the hierarchy is in general a forest rather than a single
// tree. Building it is deterministic: ties between equal minimum merge
// distances are resolved toward the pair with the lexicographically
// smallest cluster positions, and cluster positions follow the input
// order, which callers are expected to make reproducible (the event
// store hands out events sorted by dedup key).
type Dendrogram struct {
	events []models.Event
	roots  []*node
}

// New builds the full merge hierarchy over the given events using
// single linkage: the distance between two clusters is the minimum
// pairwise distance between their members. Cost is quadratic in memory
// and cubic in time, which bounds practical input size; the full
// distance matrix stays in memory for the duration of the build.
func New(events []models.Event, distance DistanceFunc) *Dendrogram {
	d := &Dendrogram{events: events}
	n := len(events)
	if n == 0 {
		return d
	}

	active := make([]*node, n)
	for i := range events {
		active[i] = &node{members: []int{i}}
	}

	// dist is the symmetric single-linkage distance matrix between the
	// active clusters; rows and columns shrink as clusters merge.
	dist := make([][]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := distance(events[i], events[j])
			dist[i][j] = v
			dist[j][i] = v
		}
	}

	for len(active) > 1 {
		minDist := math.Inf(1)
		minI, minJ := -1, -1
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				if dist[i][j] < minDist {
					minDist = dist[i][j]
					minI, minJ = i, j
				}
			}
		}
		// Everything that remains is causally disconnected; stop and
		// leave the hierarchy as a forest.
		if math.IsInf(minDist, 1) {
			break
		}

		merged := &node{
			height:  minDist,
			left:    active[minI],
			right:   active[minJ],
			members: mergeSorted(active[minI].members, active[minJ].members),
		}

		// Lance-Williams update for single linkage: the distance from
		// the merged cluster to any other is the minimum of the two
		// previous distances.
		for k := 0; k < len(active); k++ {
			if k == minI || k == minJ {
				continue
			}
			updated := math.Min(dist[minI][k], dist[minJ][k])
			dist[minI][k] = updated
			dist[k][minI] = updated
		}

		active[minI] = merged
		active = append(active[:minJ], active[minJ+1:]...)
		for i := 0; i < len(dist); i++ {
			dist[i] = append(dist[i][:minJ], dist[i][minJ+1:]...)
		}
		dist = append(dist[:minJ], dist[minJ+1:]...)
	}

	d.roots = active
	return d
}

// Cut flattens the hierarchy at the given threshold: every maximal
// subtree whose merge height is at or below the threshold becomes one
// output cluster. Events never merged below the threshold come out as
// size-1 clusters. Clusters are ordered by their smallest member index,
// members in input order. Cuts at a smaller threshold always refine
// cuts at a larger one.
func (d *Dendrogram) Cut(threshold float64) []models.Cluster {
	clusters := make([]models.Cluster, 0, len(d.roots))
	for _, root := range d.roots {
		clusters = d.collect(root, threshold, clusters)
	}
	return clusters
}

func (d *Dendrogram) collect(n *node, threshold float64, out []models.Cluster) []models.Cluster {
	if n.height <= threshold {
		cluster := make(models.Cluster, len(n.members))
		for i, idx := range n.members {
			cluster[i] = d.events[idx]
		}
		return append(out, cluster)
	}
	out = d.collect(n.left, threshold, out)
	return d.collect(n.right, threshold, out)
}

func mergeSorted(a, b []int) []int {
	merged := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	return append(merged, b[j:]...)
}
