package state

import (
	"testing"
	"time"
)

type chatValue struct {
	Items []string
	Flag  bool
}

func TestMemoryStorePutGetDrop(t *testing.T) {
	store := NewMemoryStore[chatValue](time.Minute)

	if _, ok := store.Get(1); ok {
		t.Fatal("expected no value for unknown chat")
	}

	store.Put(1, chatValue{Items: []string{"a"}, Flag: true})
	store.Put(2, chatValue{Items: []string{"b", "c"}})

	got, ok := store.Get(1)
	if !ok || len(got.Items) != 1 || got.Items[0] != "a" || !got.Flag {
		t.Fatalf("chat 1 = %+v, %v", got, ok)
	}
	other, ok := store.Get(2)
	if !ok || len(other.Items) != 2 || other.Flag {
		t.Fatalf("chat 2 = %+v, %v", other, ok)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}

	store.Drop(1)
	if _, ok := store.Get(1); ok {
		t.Fatal("expected chat 1 to be dropped")
	}
	if _, ok := store.Get(2); !ok {
		t.Fatal("dropping chat 1 must not affect chat 2")
	}
}

func TestMemoryStoreExpiresIdleChats(t *testing.T) {
	store := NewMemoryStore[int](30 * time.Millisecond)
	store.Put(7, 42)

	time.Sleep(80 * time.Millisecond)

	if _, ok := store.Get(7); ok {
		t.Fatal("expected idle chat to expire")
	}
}

func TestMemoryStoreReadRefreshesExpiry(t *testing.T) {
	store := NewMemoryStore[int](250 * time.Millisecond)
	store.Put(7, 42)

	for i := 0; i < 4; i++ {
		time.Sleep(50 * time.Millisecond)
		if v, ok := store.Get(7); !ok || v != 42 {
			t.Fatalf("read %d: got %d, %v", i, v, ok)
		}
	}
}
