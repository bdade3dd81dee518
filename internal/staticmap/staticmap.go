// Package staticmap builds Google Static Maps image URLs.
package staticmap

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"googlemaps.github.io/maps"
)

// DefaultBaseURL is the Static Maps endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// Defaults used for venue maps.
const (
	DefaultZoom    = 15
	DefaultWidth   = 400
	DefaultHeight  = 400
	DefaultMapType = "roadmap"
	DefaultScale   = 1
)

// ErrNoSize is returned for a map with non-positive dimensions.
var ErrNoSize = errors.New("staticmap: width and height must be positive")

// Marker is a labeled point drawn on the map.
type Marker struct {
	Label string
	Point maps.LatLng
}

// Map describes one static map image.
type Map struct {
	Center  maps.LatLng
	Zoom    int
	Width   int
	Height  int
	MapType string
	Scale   int
	Markers []Marker
}

// New returns a map centered on (lat, lon) with the default view settings.
func New(lat, lon float64) *Map {
	return &Map{
		Center:  maps.LatLng{Lat: lat, Lng: lon},
		Zoom:    DefaultZoom,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		MapType: DefaultMapType,
		Scale:   DefaultScale,
	}
}

// AddMarker appends a marker labeled label at (lat, lon).
func (m *Map) AddMarker(label string, lat, lon float64) {
	m.Markers = append(m.Markers, Marker{Label: label, Point: maps.LatLng{Lat: lat, Lng: lon}})
}

// Builder renders Maps into URLs.
type Builder struct {
	baseURL string
	apiKey  string
}

// NewBuilder returns a Builder for the public endpoint. apiKey may be empty.
func NewBuilder(apiKey string) *Builder {
	return &Builder{baseURL: DefaultBaseURL, apiKey: apiKey}
}

// URL renders m. Markers keep their order.
func (b *Builder) URL(m *Map) (string, error) {
	if m == nil {
		return "", errors.New("staticmap: nil map")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return "", ErrNoSize
	}

	params := url.Values{}
	params.Set("center", m.Center.String())
	params.Set("zoom", strconv.Itoa(m.Zoom))
	params.Set("size", fmt.Sprintf("%dx%d", m.Width, m.Height))
	if m.MapType != "" {
		params.Set("maptype", m.MapType)
	}
	if m.Scale > 0 {
		params.Set("scale", strconv.Itoa(m.Scale))
	}
	for _, mk := range m.Markers {
		marker := mk.Point.String()
		if mk.Label != "" {
			marker = "label:" + mk.Label + "|" + marker
		}
		params.Add("markers", marker)
	}
	if b.apiKey != "" {
		params.Set("key", b.apiKey)
	}

	base := b.baseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "?" + params.Encode(), nil
}
