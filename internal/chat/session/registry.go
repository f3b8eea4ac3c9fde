package session

import (
	"sync"
)

// Registry tracks the live channel for each connected user. At most one
// channel per user is addressable: a reconnect supersedes and closes the
// previous one.
type Registry struct {
	mu     sync.RWMutex
	byUser map[uint64]*Channel
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[uint64]*Channel)}
}

// Register installs ch as the user's live channel, closing any prior one.
func (r *Registry) Register(ch *Channel) {
	r.mu.Lock()
	prev := r.byUser[ch.UserID]
	r.byUser[ch.UserID] = ch
	r.mu.Unlock()

	if prev != nil && prev != ch {
		prev.Close()
	}
}

// Unregister removes ch if it is still the user's current channel. A stale
// unregister from a superseded channel is a no-op.
func (r *Registry) Unregister(ch *Channel) {
	r.mu.Lock()
	if r.byUser[ch.UserID] == ch {
		delete(r.byUser, ch.UserID)
	}
	r.mu.Unlock()
}

// Get returns the user's live channel, or nil when the user is offline.
func (r *Registry) Get(userID uint64) *Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID]
}

// Send pushes a frame to the user's live channel. ErrChannelUnavailable means
// the user has no addressable session and the event should take the fallback
// path (or be dropped, for perishable events).
func (r *Registry) Send(userID uint64, f Frame) error {
	ch := r.Get(userID)
	if ch == nil {
		return ErrChannelUnavailable
	}
	return ch.Send(f)
}

// Count returns the number of connected users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// CloseAll tears down every live channel; used during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	chans := make([]*Channel, 0, len(r.byUser))
	for _, ch := range r.byUser {
		chans = append(chans, ch)
	}
	r.byUser = make(map[uint64]*Channel)
	r.mu.Unlock()

	for _, ch := range chans {
		ch.Close()
	}
}
