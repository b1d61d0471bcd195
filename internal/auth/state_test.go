package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateStore_TakeConsumesOnce(t *testing.T) {
	store := NewStateStore(time.Minute)
	store.Put("session-1", "https://example.com/after-login")

	value, ok := store.Take("session-1")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/after-login", value)

	_, ok = store.Take("session-1")
	assert.False(t, ok, "second take must come back empty")
}

func TestStateStore_UnknownSession(t *testing.T) {
	store := NewStateStore(time.Minute)

	_, ok := store.Take("missing")
	assert.False(t, ok)
}

func TestStateStore_Expiry(t *testing.T) {
	store := NewStateStore(10 * time.Millisecond)
	store.Put("session-1", "value")

	time.Sleep(20 * time.Millisecond)

	_, ok := store.Take("session-1")
	assert.False(t, ok, "expired entries are not returned")
}

func TestStateStore_PurgeExpired(t *testing.T) {
	store := NewStateStore(10 * time.Millisecond)
	store.Put("old", "value")

	time.Sleep(20 * time.Millisecond)
	store.Put("fresh", "value")

	assert.Equal(t, 1, store.PurgeExpired())

	_, ok := store.Take("fresh")
	assert.True(t, ok)
}

func TestStateStore_PutReplaces(t *testing.T) {
	store := NewStateStore(time.Minute)
	store.Put("session-1", "first")
	store.Put("session-1", "second")

	value, ok := store.Take("session-1")
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}
