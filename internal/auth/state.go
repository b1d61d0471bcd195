package auth

import (
	"sync"
	"time"
)

// StateStore keeps short-lived per-session values for the OAuth round
// trip, such as a custom post-login redirect URL. Entries are consumed
// exactly once and expire if the round trip never completes.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	ttl     time.Duration
}

type stateEntry struct {
	value     string
	expiresAt time.Time
}

// NewStateStore creates a StateStore whose entries live for ttl.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		entries: make(map[string]stateEntry),
		ttl:     ttl,
	}
}

// Put stores a value keyed by session id, replacing any previous value.
func (s *StateStore) Put(sessionID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = stateEntry{
		value:     value,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Take retrieves and removes the value for a session id. The second
// return is false when no live entry exists.
func (s *StateStore) Take(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return "", false
	}
	delete(s.entries, sessionID)
	if time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// PurgeExpired drops entries whose TTL has lapsed and returns how many
// were removed.
func (s *StateStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
