package dbmysql

import (
	"time"
)

// Conversation pairs exactly one buyer and one supplier. The pair is stored
// canonically (UserLowID < UserHighID) so that (a,b) and (b,a) hit the same
// unique index row.
type Conversation struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	UserLowID  uint64 `gorm:"uniqueIndex:idx_conversation_pair;not null"`
	UserHighID uint64 `gorm:"uniqueIndex:idx_conversation_pair;not null"`

	BuyerID    uint64 `gorm:"index;not null"`
	SupplierID uint64 `gorm:"index;not null"`

	LastMessage   string `gorm:"type:varchar(255)"`
	LastMessageAt *time.Time

	UnreadForBuyer    int `gorm:"not null;default:0"`
	UnreadForSupplier int `gorm:"not null;default:0"`

	// Per-side clear markers. Clearing hides the conversation from that
	// side's list until newer activity arrives; the retention job reads
	// both timestamps to decide when the compliance window has elapsed.
	BuyerClearedAt    *time.Time
	SupplierClearedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID uint64) bool {
	return c.BuyerID == userID || c.SupplierID == userID
}

// PeerOf returns the other participant's id.
func (c *Conversation) PeerOf(userID uint64) uint64 {
	if c.BuyerID == userID {
		return c.SupplierID
	}
	return c.BuyerID
}

// UnreadFor returns the unread counter belonging to userID's side.
func (c *Conversation) UnreadFor(userID uint64) int {
	if c.BuyerID == userID {
		return c.UnreadForBuyer
	}
	return c.UnreadForSupplier
}

// ClearedAtFor returns the clear marker belonging to userID's side.
func (c *Conversation) ClearedAtFor(userID uint64) *time.Time {
	if c.BuyerID == userID {
		return c.BuyerClearedAt
	}
	return c.SupplierClearedAt
}
