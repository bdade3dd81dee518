package bars

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/barbot/core/telegram/delegate"
	"github.com/m3rciful/barbot/core/telegram/state"
	"github.com/m3rciful/barbot/internal/venue"
)

// pointSearcher returns one venue named after the searched latitude so each
// chat can tell its own results apart.
type pointSearcher struct{}

func (pointSearcher) Search(_ context.Context, q venue.Query) ([]venue.Venue, error) {
	time.Sleep(time.Millisecond)
	return []venue.Venue{{
		Name:        fmt.Sprintf("bar-%g", q.Latitude),
		Coordinates: &venue.Coordinates{Latitude: q.Latitude, Longitude: q.Longitude},
	}}, nil
}

func (pointSearcher) Name() string { return "point" }

func TestChatsAreIsolated(t *testing.T) {
	b := newTestBot(t, pointSearcher{}, nil)
	sessions := state.NewMemoryStore[Session](time.Minute)
	h := NewHandlers(b, sessions)
	loops := delegate.New(delegate.Options{QueueSize: 64})

	const chats = 8
	outs := make([]*fakeOutbox, chats)
	var wg sync.WaitGroup
	for i := 0; i < chats; i++ {
		outs[i] = &fakeOutbox{}
		wg.Add(1)
		go func(chatID int64, out *fakeOutbox) {
			defer wg.Done()
			for round := 0; round < 5; round++ {
				lat := float64(chatID)
				_ = loops.Submit(context.Background(), chatID, "location", func(ctx context.Context) error {
					return h.Apply(ctx, chatID, out, func(ctx context.Context, o Outbox, s Session) (Session, error) {
						return b.OnLocation(ctx, o, chatID, s, lat, 0)
					})
				})
				_ = loops.Submit(context.Background(), chatID, "select", func(ctx context.Context) error {
					return h.Apply(ctx, chatID, out, func(ctx context.Context, o Outbox, s Session) (Session, error) {
						return b.OnSelection(ctx, o, s, "bar_1")
					})
				})
			}
		}(int64(i+1), outs[i])
	}
	wg.Wait()
	loops.Close()

	for i := 0; i < chats; i++ {
		chatID := int64(i + 1)
		s, ok := sessions.Get(chatID)
		if !ok {
			t.Fatalf("chat %d has no session", chatID)
		}
		want := fmt.Sprintf("bar-%g", float64(chatID))
		if len(s.Venues) != 1 || s.Venues[0].Name != want {
			t.Fatalf("chat %d session holds %+v, want %s", chatID, s.Venues, want)
		}
		for _, m := range outs[i].sent {
			if m.msg.Markdown && m.text != Details(s.Venues[0]) {
				t.Fatalf("chat %d received foreign details %q", chatID, m.text)
			}
		}
		// Every round is search then first selection: no resend ever happens.
		if got, want := outs[i].kinds(), "photo,text,text,location"; got[:len(want)] != want {
			t.Fatalf("chat %d sent %s", chatID, got)
		}
		if s.Phase != PhaseShowingDetails {
			t.Fatalf("chat %d phase = %v", chatID, s.Phase)
		}
	}
}

func TestApplyKeepsSessionOnError(t *testing.T) {
	sessions := state.NewMemoryStore[Session](time.Minute)
	h := NewHandlers(nil, sessions)
	sessions.Put(1, Session{MapURL: "keep", Phase: PhaseShowingDetails})

	err := h.Apply(context.Background(), 1, &fakeOutbox{}, func(context.Context, Outbox, Session) (Session, error) {
		return Session{}, errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if s, _ := sessions.Get(1); s.MapURL != "keep" {
		t.Fatalf("session replaced on error: %+v", s)
	}

	h.Forget(1)
	if _, ok := sessions.Get(1); ok {
		t.Fatal("session survived Forget")
	}
}

func TestReplyMarkup(t *testing.T) {
	if replyMarkup(Message{Text: "x"}) != nil {
		t.Fatal("plain message got a keyboard")
	}
	menu := replyMarkup(Message{Menu: []MenuEntry{{Text: "1. A", Token: "bar_1"}, {Text: "2. B", Token: "bar_2"}}})
	if len(menu.InlineKeyboard) != 2 || menu.InlineKeyboard[1][0].Data != "bar_2" {
		t.Fatalf("inline keyboard = %+v", menu.InlineKeyboard)
	}
	loc := replyMarkup(Message{RequestLocation: LocationButton})
	if len(loc.ReplyKeyboard) != 1 || !loc.ReplyKeyboard[0][0].Location || loc.ReplyKeyboard[0][0].Text != LocationButton {
		t.Fatalf("reply keyboard = %+v", loc.ReplyKeyboard)
	}
}

func TestWiden(t *testing.T) {
	if got := widen(float32(52.52)); got != 52.52 {
		t.Fatalf("widen(52.52) = %v", got)
	}
	if got := widen(float32(-0.1275)); got != -0.1275 {
		t.Fatalf("widen(-0.1275) = %v", got)
	}
}

func TestIdleLoopDropsSession(t *testing.T) {
	sessions := state.NewMemoryStore[Session](time.Minute)
	h := NewHandlers(nil, sessions)
	dropped := make(chan int64, 1)
	loops := delegate.New(delegate.Options{
		IdleTimeout: 20 * time.Millisecond,
		OnIdle: func(chatID int64) {
			h.Forget(chatID)
			dropped <- chatID
		},
	})
	defer loops.Close()

	err := loops.Submit(context.Background(), 3, "store", func(ctx context.Context) error {
		return h.Apply(ctx, 3, &fakeOutbox{}, func(context.Context, Outbox, Session) (Session, error) {
			return Session{MapURL: "m", Phase: PhaseAwaitingFirstSelection}, nil
		})
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-dropped:
	case <-time.After(time.Second):
		t.Fatal("loop never went idle")
	}
	if _, ok := sessions.Get(3); ok {
		t.Fatal("session survived idle teardown")
	}
}
