package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/barbot/core/config"
	coredatabase "github.com/m3rciful/barbot/core/database"
	"github.com/m3rciful/barbot/internal/bars"
	"github.com/m3rciful/barbot/internal/venue"
)

// SearchConfig selects the venue search provider.
type SearchConfig struct {
	Provider     string `yaml:"provider" envconfig:"SEARCH_PROVIDER"`
	YelpAPIKey   string `yaml:"yelp_api_key" envconfig:"YELP_API_KEY"`
	GoogleAPIKey string `yaml:"google_api_key" envconfig:"GOOGLE_MAPS_API_KEY"`
	// GoogleRadiusMeters bounds Places nearby search; 0 -> provider default.
	GoogleRadiusMeters uint   `yaml:"google_radius_meters" envconfig:"SEARCH_GOOGLE_RADIUS_METERS"`
	Category           string `yaml:"category" envconfig:"SEARCH_CATEGORY"`
	Limit              int    `yaml:"limit" envconfig:"SEARCH_LIMIT"`
}

// MapsConfig configures the static map images.
type MapsConfig struct {
	// APIKey is appended to map URLs; empty falls back to search.google_api_key.
	APIKey string `yaml:"api_key" envconfig:"STATIC_MAPS_API_KEY"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Search   SearchConfig        `yaml:"search"`
	Maps     MapsConfig          `yaml:"maps"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads path (optional) and the environment, then validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}

	c.Search.Provider = strings.ToLower(strings.TrimSpace(c.Search.Provider))
	switch c.Search.Provider {
	case "", venue.ProviderYelp:
		c.Search.Provider = venue.ProviderYelp
		if strings.TrimSpace(c.Search.YelpAPIKey) == "" {
			return fmt.Errorf("search.yelp_api_key is required when search.provider is 'yelp'")
		}
	case venue.ProviderGoogle:
		if strings.TrimSpace(c.Search.GoogleAPIKey) == "" {
			return fmt.Errorf("search.google_api_key is required when search.provider is 'google'")
		}
	default:
		return fmt.Errorf("invalid search.provider %q; allowed: yelp, google", c.Search.Provider)
	}
	if c.Search.Category == "" {
		c.Search.Category = bars.DefaultCategory
	}
	if c.Search.Limit < 0 || c.Search.Limit > bars.MaxResults {
		return fmt.Errorf("search.limit must be between 0 and %d", bars.MaxResults)
	}
	if c.Search.Limit == 0 {
		c.Search.Limit = bars.DefaultMaxResults
	}
	if c.Maps.APIKey == "" {
		c.Maps.APIKey = c.Search.GoogleAPIKey
	}

	return c.Database.Normalize()
}
