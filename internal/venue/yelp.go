package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/barbot/core/logger"
)

// DefaultYelpBaseURL is the Yelp Fusion API root.
const DefaultYelpBaseURL = "https://api.yelp.com/v3"

// YelpClient queries the Yelp Fusion business search endpoint.
type YelpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// YelpOption customizes a YelpClient.
type YelpOption func(*YelpClient)

// WithYelpBaseURL points the client at another API root, e.g. a test server.
func WithYelpBaseURL(u string) YelpOption {
	return func(c *YelpClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithYelpHTTPClient sets the HTTP client used for requests.
func WithYelpHTTPClient(h *http.Client) YelpOption {
	return func(c *YelpClient) { c.http = h }
}

// NewYelpClient builds a Yelp provider authenticated with apiKey.
func NewYelpClient(apiKey string, opts ...YelpOption) (*YelpClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("yelp: %w", ErrMissingAPIKey)
	}
	c := &YelpClient{
		apiKey:  apiKey,
		baseURL: DefaultYelpBaseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements Searcher.
func (c *YelpClient) Name() string { return ProviderYelp }

type yelpSearchResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpBusiness struct {
	Name         string   `json:"name"`
	Rating       float64  `json:"rating"`
	DisplayPhone string   `json:"display_phone"`
	Coordinates  *yelpLoc `json:"coordinates"`
	Location     struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

type yelpLoc struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Search implements Searcher.
func (c *YelpClient) Search(ctx context.Context, q Query) ([]Venue, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	if q.Category != "" {
		params.Set("categories", q.Category)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("yelp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yelp: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{Provider: ProviderYelp, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload yelpSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("yelp: decode response: %w", err)
	}

	venues := make([]Venue, 0, len(payload.Businesses))
	dropped := 0
	for _, b := range payload.Businesses {
		v, ok := b.toVenue()
		if !ok {
			dropped++
			continue
		}
		venues = append(venues, v)
	}

	logger.Search.LogAttrs(ctx, slog.LevelDebug, "search.done",
		slog.String("provider", ProviderYelp),
		slog.Int("venues", len(venues)),
		slog.Int("dropped", dropped),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return venues, nil
}

// toVenue reports false for businesses without a usable position; they
// could not be placed on the map.
func (b yelpBusiness) toVenue() (Venue, bool) {
	if b.Coordinates == nil || b.Coordinates.Latitude == nil || b.Coordinates.Longitude == nil {
		return Venue{}, false
	}
	return Venue{
		Name: b.Name,
		Coordinates: &Coordinates{
			Latitude:  *b.Coordinates.Latitude,
			Longitude: *b.Coordinates.Longitude,
		},
		DisplayPhone:   b.DisplayPhone,
		DisplayAddress: strings.Join(b.Location.DisplayAddress, "\n"),
		Rating:         b.Rating,
	}, true
}
