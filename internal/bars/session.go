// Package bars implements the bar finder conversation: a location starts a
// nearby search, numbered buttons select a venue, and each chat keeps the
// results of its latest search until it goes idle.
package bars

import "github.com/m3rciful/barbot/internal/venue"

// Phase tracks where a chat is in the selection flow.
type Phase int

const (
	// PhaseIdle is the zero value: no search has been made.
	PhaseIdle Phase = iota
	// PhaseAwaitingFirstSelection follows a search. The map and menu are
	// still the latest messages, so the first selection does not resend them.
	PhaseAwaitingFirstSelection
	// PhaseShowingDetails follows any selection. Later selections resend the
	// map and menu before the details.
	PhaseShowingDetails
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingFirstSelection:
		return "awaiting_first_selection"
	case PhaseShowingDetails:
		return "showing_details"
	}
	return "unknown"
}

// Session is the per-chat state. Handlers receive it by value and return
// the replacement; it is never shared between chats.
type Session struct {
	Venues []venue.Venue
	MapURL string
	Phase  Phase
}

// Venue returns the venue behind a 1-based menu position.
func (s Session) Venue(n int) (venue.Venue, bool) {
	if n < 1 || n > len(s.Venues) {
		return venue.Venue{}, false
	}
	return s.Venues[n-1], true
}
