package geocode

import "context"

// Provider interface defines the methods for reverse-geocoding providers.
// Implementations resolve a coordinate pair to a human-readable place
// name. Providers are consulted only for reporting, after clustering is
// final, never as part of a clustering decision.
type Provider interface {
	PlaceName(ctx context.Context, latitude, longitude float64) (string, error)
}
