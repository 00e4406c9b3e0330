package geocode

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const geonamesEndpoint = "http://api.geonames.org/findNearbyPlaceName"

// GeoNamesProvider resolves place names through the GeoNames
// findNearbyPlaceName web service. A registered GeoNames username is
// required by the service.
type GeoNamesProvider struct {
	username string
	endpoint string
	client   *http.Client
}

// NewGeoNamesProvider creates a new GeoNamesProvider instance.
func NewGeoNamesProvider(username string, timeout time.Duration) *GeoNamesProvider {
	return &GeoNamesProvider{
		username: username,
		endpoint: geonamesEndpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// geonamesResponse mirrors the subset of the findNearbyPlaceName XML
// response this provider consumes.
type geonamesResponse struct {
	Geonames []struct {
		ToponymName string `xml:"toponymName"`
	} `xml:"geoname"`
	Status struct {
		Message string `xml:"message,attr"`
	} `xml:"status"`
}

// PlaceName resolves the coordinates to the toponym name of the nearest
// populated place.
func (g *GeoNamesProvider) PlaceName(ctx context.Context, latitude, longitude float64) (string, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", latitude))
	query.Set("lng", fmt.Sprintf("%f", longitude))
	query.Set("username", g.username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geonames returned status %d", resp.StatusCode)
	}

	var parsed geonamesResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode geonames response: %w", err)
	}
	if parsed.Status.Message != "" {
		return "", fmt.Errorf("geonames error: %s", parsed.Status.Message)
	}
	if len(parsed.Geonames) == 0 {
		return "", errors.New("no place found for coordinates")
	}

	return parsed.Geonames[0].ToponymName, nil
}
