package state

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m3rciful/barbot/core/logger"
)

type memoryStore[T any] struct {
	items *cache.Cache
}

// NewMemoryStore constructs an in-memory Store whose entries expire after idle
// of inactivity. Expired entries are swept every idle/2.
func NewMemoryStore[T any](idle time.Duration) Store[T] {
	if idle <= 0 {
		idle = cache.NoExpiration
	}
	cleanup := idle / 2
	if idle == cache.NoExpiration {
		cleanup = 0
	}
	items := cache.New(idle, cleanup)
	items.OnEvicted(func(key string, _ interface{}) {
		logger.Session.LogAttrs(context.Background(), slog.LevelDebug, "session.evicted",
			slog.String("chat_id", key),
		)
	})
	return &memoryStore[T]{items: items}
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Get returns the stored value and refreshes its expiry.
func (m *memoryStore[T]) Get(chatID int64) (T, bool) {
	var zero T
	key := chatKey(chatID)
	raw, ok := m.items.Get(key)
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		return zero, false
	}
	m.items.SetDefault(key, val)
	return val, true
}

// Put stores value for the chat with a fresh expiry.
func (m *memoryStore[T]) Put(chatID int64, value T) {
	m.items.SetDefault(chatKey(chatID), value)
}

// Drop removes the chat's value.
func (m *memoryStore[T]) Drop(chatID int64) {
	m.items.Delete(chatKey(chatID))
}

// Len returns the number of held values, including ones expired but not yet swept.
func (m *memoryStore[T]) Len() int {
	return m.items.ItemCount()
}
