// Package venue searches for nearby businesses through pluggable providers.
package venue

import (
	"context"
	"errors"
	"fmt"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Venue is one business returned by a search. Empty strings mean the field
// was not present in the response.
type Venue struct {
	Name           string
	Coordinates    *Coordinates
	DisplayPhone   string
	DisplayAddress string
	Rating         float64
}

// Query describes a nearby search.
type Query struct {
	Latitude  float64
	Longitude float64
	Category  string
	Limit     int
}

// Searcher finds venues around a point. Results keep the provider's order.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Venue, error)
	// Name identifies the provider in logs and in the search journal.
	Name() string
}

const (
	// ProviderYelp selects the Yelp Fusion business search.
	ProviderYelp = "yelp"
	// ProviderGoogle selects Google Places nearby search.
	ProviderGoogle = "google"
)

// ErrMissingAPIKey is returned when a provider is built without credentials.
var ErrMissingAPIKey = errors.New("venue: api key is required")

// APIError is a non-2xx answer from a search provider.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status (%d)", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status (%d): %s", e.Provider, e.Status, e.Body)
}

// StatusCode exposes the HTTP status for error classification.
func (e *APIError) StatusCode() int { return e.Status }
