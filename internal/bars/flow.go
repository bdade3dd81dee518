package bars

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/barbot/core/logger"
	tg "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/callbacks"
	"github.com/m3rciful/barbot/internal/staticmap"
	"github.com/m3rciful/barbot/internal/venue"
)

// Message is an outbound text with its optional keyboard.
type Message struct {
	Text string
	// Menu is rendered as an inline keyboard, one button per row.
	Menu []MenuEntry
	// RequestLocation, when set, attaches a persistent reply keyboard with
	// one location-sharing button carrying this label.
	RequestLocation string
	Markdown        bool
}

// Outbox delivers replies to the chat an event came from. Every call is
// synchronous and its error aborts the current event.
type Outbox interface {
	SendPhoto(url string) error
	SendText(msg Message) error
	SendLocation(lat, lon float64) error
}

// MapRenderer turns a map description into an image URL.
type MapRenderer interface {
	URL(m *staticmap.Map) (string, error)
}

// SearchRecord describes one completed location search.
type SearchRecord struct {
	ChatID    int64
	Latitude  float64
	Longitude float64
	Provider  string
	Results   int
}

// Journal stores completed searches.
type Journal interface {
	Record(ctx context.Context, rec SearchRecord) error
}

// Options configures a Bot.
type Options struct {
	Searcher venue.Searcher
	Maps     MapRenderer
	// Journal is optional.
	Journal  Journal
	Category string
	Limit    int
}

// Bot holds the conversation logic. It has no per-chat state of its own and
// is safe for concurrent use by many chats.
type Bot struct {
	searcher venue.Searcher
	maps     MapRenderer
	journal  Journal
	category string
	limit    int
}

// New validates opts and returns a Bot.
func New(opts Options) (*Bot, error) {
	if opts.Searcher == nil {
		return nil, fmt.Errorf("bars: nil searcher")
	}
	if opts.Maps == nil {
		return nil, fmt.Errorf("bars: nil map renderer")
	}
	if opts.Category == "" {
		opts.Category = DefaultCategory
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultMaxResults
	}
	if opts.Limit > MaxResults {
		return nil, fmt.Errorf("bars: limit %d exceeds %d", opts.Limit, MaxResults)
	}
	return &Bot{
		searcher: opts.Searcher,
		maps:     opts.Maps,
		journal:  opts.Journal,
		category: opts.Category,
		limit:    opts.Limit,
	}, nil
}

// OnLocation searches around (lat, lon), sends the map and the selection
// menu, and returns the new session. On error the caller keeps s.
func (b *Bot) OnLocation(ctx context.Context, out Outbox, chatID int64, s Session, lat, lon float64) (Session, error) {
	venues, err := b.searcher.Search(ctx, venue.Query{
		Latitude:  lat,
		Longitude: lon,
		Category:  b.category,
		Limit:     b.limit,
	})
	if err != nil {
		return s, fmt.Errorf("search bars: %w", err)
	}

	logger.Search.LogAttrs(ctx, slog.LevelInfo, "search.completed",
		slog.Int64("chat_id", chatID),
		slog.String("provider", b.searcher.Name()),
		slog.Float64("lat", lat),
		slog.Float64("lon", lon),
		slog.Int("venues", len(venues)),
	)

	if len(venues) == 0 {
		if err := out.SendText(Message{Text: NoResultsText}); err != nil {
			return s, fmt.Errorf("send no results: %w", err)
		}
		b.record(ctx, chatID, lat, lon, 0)
		return Session{Phase: PhaseAwaitingFirstSelection}, nil
	}

	venueMap := VenueMap(lat, lon, venues)
	mapURL, err := b.maps.URL(venueMap)
	if err != nil {
		return s, fmt.Errorf("build map: %w", err)
	}
	logger.Maps.LogAttrs(ctx, slog.LevelDebug, "map.built",
		slog.Int("markers", len(venueMap.Markers)),
		slog.Int("zoom", venueMap.Zoom),
	)

	if err := out.SendPhoto(mapURL); err != nil {
		return s, fmt.Errorf("send map: %w", err)
	}
	if err := out.SendText(Message{Text: SelectPrompt, Menu: Menu(venues)}); err != nil {
		return s, fmt.Errorf("send menu: %w", err)
	}

	b.record(ctx, chatID, lat, lon, len(venues))
	return Session{
		Venues: venues,
		MapURL: mapURL,
		Phase:  PhaseAwaitingFirstSelection,
	}, nil
}

// OnSelection answers a menu token. Tokens outside the menu format are
// ignored; a well-formed token that does not index the current results is
// a *StaleSelectionError and nothing is sent.
func (b *Bot) OnSelection(ctx context.Context, out Outbox, s Session, token string) (Session, error) {
	n, ok := callbacks.ParseIndexToken(token, SelectionPrefix)
	if !ok {
		logger.Session.LogAttrs(ctx, slog.LevelDebug, "selection.ignored", slog.String("token", token))
		return s, nil
	}
	v, ok := s.Venue(n)
	if !ok {
		return s, &StaleSelectionError{Token: token, Index: n, Count: len(s.Venues)}
	}

	next := s
	resend := s.Phase == PhaseShowingDetails
	if resend {
		if err := out.SendPhoto(s.MapURL); err != nil {
			return s, fmt.Errorf("resend map: %w", err)
		}
		if err := out.SendText(Message{Text: ReselectPrompt, Menu: Menu(s.Venues)}); err != nil {
			return s, fmt.Errorf("resend menu: %w", err)
		}
	}
	next.Phase = PhaseShowingDetails

	logger.Session.LogAttrs(ctx, slog.LevelDebug, "selection.resolved",
		slog.Int("index", n),
		slog.String("phase", s.Phase.String()),
		slog.Bool("resend", resend),
	)

	if err := out.SendText(Message{Text: Details(v), Markdown: true}); err != nil {
		return s, fmt.Errorf("send details: %w", err)
	}
	if v.Coordinates != nil {
		if err := out.SendLocation(v.Coordinates.Latitude, v.Coordinates.Longitude); err != nil {
			return s, fmt.Errorf("send location: %w", err)
		}
	}
	return next, nil
}

// OnCommand answers /start and /help. Other text is ignored. The session is
// never changed.
func (b *Bot) OnCommand(ctx context.Context, out Outbox, s Session, text string) (Session, error) {
	switch tg.NormalizeCommand(text) {
	case CommandStart:
		if err := out.SendText(Message{Text: WelcomeText, RequestLocation: LocationButton}); err != nil {
			return s, fmt.Errorf("send welcome: %w", err)
		}
	case CommandHelp:
		if err := out.SendText(Message{Text: HelpText}); err != nil {
			return s, fmt.Errorf("send help: %w", err)
		}
	}
	return s, nil
}

func (b *Bot) record(ctx context.Context, chatID int64, lat, lon float64, results int) {
	if b.journal == nil {
		return
	}
	err := b.journal.Record(ctx, SearchRecord{
		ChatID:    chatID,
		Latitude:  lat,
		Longitude: lon,
		Provider:  b.searcher.Name(),
		Results:   results,
	})
	if err != nil {
		logger.Journal.LogAttrs(ctx, slog.LevelWarn, "journal.record.fail",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}
