package state

// Store holds one value per chat. Values are forgotten after the configured
// idle window; every read or write restarts the window for that chat.
type Store[T any] interface {
	// Get returns the value for chatID, or the zero value and false when none is held.
	Get(chatID int64) (T, bool)
	// Put replaces the value for chatID.
	Put(chatID int64, value T)
	// Drop forgets chatID immediately.
	Drop(chatID int64)
	// Len reports how many chats currently hold a value.
	Len() int
}
