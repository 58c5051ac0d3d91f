// Package dedup enforces at-most-once dispatch: a per-room record of the
// last message id already handed to the router.
package dedup

import "sync"

// Tracker is the in-memory Deduper. Safe for concurrent webhook delivery.
type Tracker struct {
	mu   sync.Mutex
	last map[string]string // roomID -> last dispatched message id
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]string)}
}

// Accept returns true and records messageID the first time it is seen for
// roomID; false on any repeat. The record is monotonic: once an id is
// accepted for a room, that id is never accepted again.
func (t *Tracker) Accept(roomID, messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last[roomID] == messageID {
		return false
	}
	t.last[roomID] = messageID
	return true
}

// Last returns the last dispatched id for a room, if any.
func (t *Tracker) Last(roomID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.last[roomID]
	return id, ok
}
