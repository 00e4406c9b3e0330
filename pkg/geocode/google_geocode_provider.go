package geocode

import (
	"context"
	"errors"

	"googlemaps.github.io/maps"
)

// GoogleGeocodeProvider uses the Google Maps API to resolve place names.
type GoogleGeocodeProvider struct {
	client *maps.Client // Maps API client for making geocoding requests
}

// NewGoogleGeocodeProvider creates a new GoogleGeocodeProvider instance.
func NewGoogleGeocodeProvider(apiKey string) (*GoogleGeocodeProvider, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GoogleGeocodeProvider{
		client: c,
	}, nil
}

// PlaceName resolves the coordinates to a place name using the Google
// Maps reverse geocoding API.
func (g *GoogleGeocodeProvider) PlaceName(ctx context.Context, latitude, longitude float64) (string, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: latitude,
			Lng: longitude,
		},
	}

	results, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("no geocoding results for coordinates")
	}

	return results[0].FormattedAddress, nil
}
