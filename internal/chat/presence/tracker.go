// Package presence keeps the ephemeral "is typing" signal. Entries expire on
// their own; nothing here is persisted or correctness-bearing.
package presence

import (
	"context"
	"time"
)

// DefaultTTL is how long a typing indicator stays alive without renewal.
const DefaultTTL = 3 * time.Second

// Tracker is the per-conversation, per-user typing state. SetTyping renews
// the entry's lifetime; IsTyping never reports true past expiry.
type Tracker interface {
	SetTyping(ctx context.Context, conversationID, userID uint64) error
	IsTyping(ctx context.Context, conversationID, userID uint64) (bool, error)
	ClearTyping(ctx context.Context, conversationID, userID uint64) error
}
