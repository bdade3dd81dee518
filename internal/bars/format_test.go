package bars

import (
	"strconv"
	"strings"
	"testing"

	"github.com/m3rciful/barbot/internal/venue"
)

func TestFormatRating(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{4.0, "4"},
		{4.5, "4.5"},
		{0, "0"},
		{5, "5"},
		{3.25, "3.2"},
		{3.75, "3.8"},
	}
	for _, tc := range cases {
		if got := FormatRating(tc.in); got != tc.want {
			t.Errorf("FormatRating(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMenuAndMarkersShareOrder(t *testing.T) {
	venues := []venue.Venue{
		{Name: "Alpha", Rating: 4, Coordinates: &venue.Coordinates{Latitude: 1, Longitude: 2}},
		{Name: "Beta", Rating: 4.5, Coordinates: &venue.Coordinates{Latitude: 3, Longitude: 4}},
		{Name: "Gamma", Rating: 3, Coordinates: &venue.Coordinates{Latitude: 5, Longitude: 6}},
	}
	menu := Menu(venues)
	m := VenueMap(10, 20, venues)

	if len(menu) != len(venues) || len(m.Markers) != len(venues) {
		t.Fatalf("menu=%d markers=%d venues=%d", len(menu), len(m.Markers), len(venues))
	}
	star := icon(":star:")
	for i, v := range venues {
		n := i + 1
		wantText := strings.Join([]string{
			strconv.Itoa(n) + ".", v.Name + ".", star, FormatRating(v.Rating),
		}, " ")
		if menu[i].Text != wantText {
			t.Errorf("menu[%d].Text = %q, want %q", i, menu[i].Text, wantText)
		}
		if want := "bar_" + strconv.Itoa(n); menu[i].Token != want {
			t.Errorf("menu[%d].Token = %q, want %q", i, menu[i].Token, want)
		}
		mk := m.Markers[i]
		if mk.Label != strconv.Itoa(n) {
			t.Errorf("marker[%d].Label = %q", i, mk.Label)
		}
		if mk.Point.Lat != v.Coordinates.Latitude || mk.Point.Lng != v.Coordinates.Longitude {
			t.Errorf("marker[%d] at %v, want venue %s", i, mk.Point, v.Name)
		}
	}
	if m.Center.Lat != 10 || m.Center.Lng != 20 || m.Zoom != 15 || m.Width != 400 || m.Height != 400 {
		t.Fatalf("unexpected map view: %+v", m)
	}
}

func TestMarkerLabelsAreSingleCharacters(t *testing.T) {
	venues := make([]venue.Venue, MaxResults)
	for i := range venues {
		venues[i] = venue.Venue{Name: "v", Coordinates: &venue.Coordinates{Latitude: float64(i), Longitude: 1}}
	}
	m := VenueMap(0, 0, venues)
	if len(m.Markers) != MaxResults {
		t.Fatalf("markers = %d, want %d", len(m.Markers), MaxResults)
	}
	for i, mk := range m.Markers {
		if len(mk.Label) != 1 {
			t.Errorf("marker[%d].Label = %q, want one character", i, mk.Label)
		}
	}
}

func TestDetailsOmitsMissingFields(t *testing.T) {
	phone := icon(":telephone:")
	cases := []struct {
		name string
		v    venue.Venue
		want string
	}{
		{"all", venue.Venue{Name: "Tap", DisplayPhone: "555", DisplayAddress: "1 Main\nTown"},
			"*Tap*\n" + phone + " 555\n\n1 Main\nTown"},
		{"no phone", venue.Venue{Name: "Tap", DisplayAddress: "1 Main"}, "*Tap*\n1 Main"},
		{"no address", venue.Venue{Name: "Tap", DisplayPhone: "555"}, "*Tap*\n" + phone + " 555\n"},
		{"name only", venue.Venue{Name: "Tap"}, "*Tap*"},
		{"escaped", venue.Venue{Name: "Bar_One*"}, `*Bar*\_*One*\*`},
		{"markup in name", venue.Venue{Name: "2*2 Pub", DisplayPhone: "+1 555_0100"}, "*2*\\**2 Pub*\n" + phone + " +1 555\\_0100\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Details(tc.v); got != tc.want {
				t.Fatalf("Details = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIconSubstitutes(t *testing.T) {
	if got := icon(":star:"); got == "" || strings.Contains(got, ":") {
		t.Fatalf("icon(:star:) = %q", got)
	}
}
