package venue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/m3rciful/barbot/core/logger"
)

// DefaultGoogleRadius is the nearby search radius in meters.
const DefaultGoogleRadius = 1500

// GoogleClient finds venues through Places Nearby Search. Nearby results
// carry no phone number, so each kept result is followed by a Place Details
// lookup restricted to the phone field.
type GoogleClient struct {
	client *maps.Client
	radius uint
}

// NewGoogleClient builds a Places provider. Extra maps options (base URL,
// HTTP client) are passed through to the underlying client.
func NewGoogleClient(apiKey string, radius uint, opts ...maps.ClientOption) (*GoogleClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("google: %w", ErrMissingAPIKey)
	}
	if radius == 0 {
		radius = DefaultGoogleRadius
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("google: new client: %w", err)
	}
	return &GoogleClient{client: client, radius: radius}, nil
}

// Name implements Searcher.
func (c *GoogleClient) Name() string { return ProviderGoogle }

// Search implements Searcher. Query.Category is matched to a Places type;
// unknown categories fall back to a keyword search.
func (c *GoogleClient) Search(ctx context.Context, q Query) ([]Venue, error) {
	req := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: q.Latitude, Lng: q.Longitude},
		Radius:   c.radius,
		Language: "en",
	}
	if t, ok := googlePlaceTypes[q.Category]; ok {
		req.Type = t
	} else if q.Category != "" {
		req.Keyword = q.Category
	}

	start := time.Now()
	resp, err := c.client.NearbySearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google: nearby search: %w", err)
	}

	venues := make([]Venue, 0, len(resp.Results))
	for _, place := range resp.Results {
		if q.Limit > 0 && len(venues) == q.Limit {
			break
		}
		loc := place.Geometry.Location
		if loc.Lat == 0 && loc.Lng == 0 {
			continue
		}
		v := Venue{
			Name:           place.Name,
			Coordinates:    &Coordinates{Latitude: loc.Lat, Longitude: loc.Lng},
			DisplayAddress: place.Vicinity,
			Rating:         float64(place.Rating),
		}
		if place.PlaceID != "" {
			phone, err := c.phone(ctx, place.PlaceID)
			if err != nil {
				return nil, err
			}
			v.DisplayPhone = phone
		}
		venues = append(venues, v)
	}

	logger.Search.LogAttrs(ctx, slog.LevelDebug, "search.done",
		slog.String("provider", ProviderGoogle),
		slog.Int("venues", len(venues)),
		slog.Int("results", len(resp.Results)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return venues, nil
}

func (c *GoogleClient) phone(ctx context.Context, placeID string) (string, error) {
	details, err := c.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskFormattedPhoneNumber},
	})
	if err != nil {
		return "", fmt.Errorf("google: place details %s: %w", placeID, err)
	}
	return details.FormattedPhoneNumber, nil
}

var googlePlaceTypes = map[string]maps.PlaceType{
	"bars":        maps.PlaceTypeBar,
	"bar":         maps.PlaceTypeBar,
	"nightlife":   maps.PlaceTypeNightClub,
	"restaurants": maps.PlaceTypeRestaurant,
	"cafes":       maps.PlaceTypeCafe,
}
