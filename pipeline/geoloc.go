package pipeline

import (
	"context"
	"fmt"
)

// DefaultMapsEndpoint is the Static Maps API endpoint used when a
// GeoResolver is built without an explicit one.
const DefaultMapsEndpoint = "https://maps.googleapis.com/maps/api/staticmap"

// GeoResolver turns a file's embedded geolocation into a Static Maps URL.
type GeoResolver struct {
	store    FileStore
	endpoint string
	apiKey   string
}

// NewGeoResolver creates a resolver over the given file store. An empty
// endpoint selects DefaultMapsEndpoint.
func NewGeoResolver(store FileStore, endpoint, apiKey string) *GeoResolver {
	if endpoint == "" {
		endpoint = DefaultMapsEndpoint
	}
	return &GeoResolver{store: store, endpoint: endpoint, apiKey: apiKey}
}

// Resolve fetches the file's image metadata and composes a map URL from
// its location. Files without location metadata resolve to an empty,
// non-present result; transport errors propagate.
func (g *GeoResolver) Resolve(ctx context.Context, fileID string) (Geolocation, error) {
	loc, err := g.store.ImageLocation(ctx, fileID)
	if err != nil {
		return Geolocation{}, fmt.Errorf("image metadata for %q: %w", fileID, err)
	}
	if loc == nil {
		return Geolocation{}, nil
	}
	return Geolocation{
		Present: true,
		MapURL: fmt.Sprintf("%s?size=480x480&markers=%v,%v&key=%s",
			g.endpoint, loc.Latitude, loc.Longitude, g.apiKey),
	}, nil
}
