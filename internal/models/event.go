package models

import (
	"fmt"
	"time"
)

// Event represents a single geotagged, timestamped check-in by one author.
// Events are immutable once constructed; replacing an author's latest
// check-in means storing a new Event, never mutating fields in place.
type Event struct {
	Name      string    // Display name of the author
	URI       string    // Canonical identifier for the author
	Timestamp time.Time // Instant the check-in was published
	Latitude  float64   // Decimal degrees, WGS84
	Longitude float64   // Decimal degrees, WGS84
}

// Key returns the dedup key identifying the author's timeline.
func (e Event) Key() Key {
	return Key{Name: e.Name, URI: e.URI}
}

// Key is the composite (name, uri) identity of an author. It is a
// comparable struct rather than a concatenated string so that author
// names containing the display separator cannot collide.
type Key struct {
	Name string
	URI  string
}

// String renders the key in the conventional "name <uri>" form used in
// logs and announcements.
func (k Key) String() string {
	return fmt.Sprintf("%s <%s>", k.Name, k.URI)
}

// Less orders keys lexicographically by name, then URI.
func (k Key) Less(other Key) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.URI < other.URI
}

// Cluster is an ordered sequence of events considered part of one
// candidate gathering. Produced only as clustering output.
type Cluster []Event
