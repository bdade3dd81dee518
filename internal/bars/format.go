package bars

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kyokomi/emoji/v2"

	"github.com/m3rciful/barbot/core/telegram/callbacks"
	"github.com/m3rciful/barbot/core/telegram/format"
	"github.com/m3rciful/barbot/internal/staticmap"
	"github.com/m3rciful/barbot/internal/venue"
)

// MenuEntry is one inline button of the selection menu.
type MenuEntry struct {
	Text  string
	Token string
}

// FormatRating renders whole ratings without a decimal point and others
// with exactly one decimal digit: 4 -> "4", 4.5 -> "4.5".
func FormatRating(r float64) string {
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// icon substitutes a single emoji alias such as ":star:". Venue data never
// goes through the emoji replacer so names containing colons stay intact.
func icon(alias string) string {
	return strings.TrimSpace(emoji.Sprint(alias))
}

// Menu builds one entry per venue, numbered from 1 in result order.
func Menu(venues []venue.Venue) []MenuEntry {
	menu := make([]MenuEntry, len(venues))
	star := icon(":star:")
	for i, v := range venues {
		n := i + 1
		menu[i] = MenuEntry{
			Text:  fmt.Sprintf("%d. %s. %s %s", n, v.Name, star, FormatRating(v.Rating)),
			Token: callbacks.IndexToken(SelectionPrefix, n),
		}
	}
	return menu
}

// VenueMap returns the map around the user with one marker per venue,
// labeled like the matching menu entry.
func VenueMap(lat, lon float64, venues []venue.Venue) *staticmap.Map {
	m := staticmap.New(lat, lon)
	for i, v := range venues {
		if v.Coordinates == nil {
			continue
		}
		m.AddMarker(strconv.Itoa(i+1), v.Coordinates.Latitude, v.Coordinates.Longitude)
	}
	return m
}

// Details renders the Markdown venue card. Missing phone or address lines
// are left out.
func Details(v venue.Venue) string {
	var b strings.Builder
	b.WriteString(format.Bold(v.Name))
	if v.DisplayPhone != "" {
		b.WriteString("\n")
		b.WriteString(icon(":telephone:"))
		b.WriteString(" ")
		b.WriteString(format.EscapeMD(v.DisplayPhone))
		b.WriteString("\n")
	}
	if v.DisplayAddress != "" {
		b.WriteString("\n")
		b.WriteString(format.EscapeMD(v.DisplayAddress))
	}
	return b.String()
}
