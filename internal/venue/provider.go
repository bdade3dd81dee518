package venue

import (
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// ProviderConfig selects and configures a search provider.
type ProviderConfig struct {
	Provider     string
	YelpAPIKey   string
	GoogleAPIKey string
	GoogleRadius uint
	HTTPClient   *http.Client
}

// NewSearcher builds the provider named by cfg.Provider; empty means yelp.
func NewSearcher(cfg ProviderConfig) (Searcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderYelp:
		var opts []YelpOption
		if cfg.HTTPClient != nil {
			opts = append(opts, WithYelpHTTPClient(cfg.HTTPClient))
		}
		return NewYelpClient(cfg.YelpAPIKey, opts...)
	case ProviderGoogle:
		var opts []maps.ClientOption
		if cfg.HTTPClient != nil {
			opts = append(opts, maps.WithHTTPClient(cfg.HTTPClient))
		}
		return NewGoogleClient(cfg.GoogleAPIKey, cfg.GoogleRadius, opts...)
	default:
		return nil, fmt.Errorf("venue: unknown provider %q; allowed: yelp, google", cfg.Provider)
	}
}
