package presence

import (
	"context"
	"sync"
	"time"
)

type typingKey struct {
	conversationID uint64
	userID         uint64
}

// MemoryTracker is the in-process Tracker. Entries are evicted lazily on read
// and by a periodic sweep so the map cannot grow unbounded on write-only
// traffic.
type MemoryTracker struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[typingKey]time.Time // key -> expiresAt

	stopOnce sync.Once
	stop     chan struct{}
}

func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t := &MemoryTracker{
		ttl:     ttl,
		entries: make(map[typingKey]time.Time),
		stop:    make(chan struct{}),
	}
	go t.sweep()
	return t
}

func (t *MemoryTracker) SetTyping(_ context.Context, conversationID, userID uint64) error {
	t.mu.Lock()
	t.entries[typingKey{conversationID, userID}] = time.Now().Add(t.ttl)
	t.mu.Unlock()
	return nil
}

func (t *MemoryTracker) IsTyping(_ context.Context, conversationID, userID uint64) (bool, error) {
	key := typingKey{conversationID, userID}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiresAt, ok := t.entries[key]
	if !ok {
		return false, nil
	}
	if !time.Now().Before(expiresAt) {
		delete(t.entries, key)
		return false, nil
	}
	return true, nil
}

func (t *MemoryTracker) ClearTyping(_ context.Context, conversationID, userID uint64) error {
	t.mu.Lock()
	delete(t.entries, typingKey{conversationID, userID})
	t.mu.Unlock()
	return nil
}

// Stop halts the background sweep.
func (t *MemoryTracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *MemoryTracker) sweep() {
	ticker := time.NewTicker(t.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			t.mu.Lock()
			for key, expiresAt := range t.entries {
				if !now.Before(expiresAt) {
					delete(t.entries, key)
				}
			}
			t.mu.Unlock()
		}
	}
}
