package dbmysql

import (
	"time"
)

// MessageTypeChat is the only persisted message type; typing and
// read-receipt events are ephemeral frames and never hit the database.
const MessageTypeChat = "CHAT"

// Message is append-only: once written, only the Read flag ever changes.
// Ordering key within a conversation is (SentAt, ID); ID breaks ties for
// same-millisecond sends.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"index:idx_conversation_sent;not null"`
	SenderID       uint64    `gorm:"index;not null"`
	ReceiverID     uint64    `gorm:"index;not null"`
	Content        string    `gorm:"type:text;not null"`
	Type           string    `gorm:"type:varchar(16);not null;default:CHAT"`
	Read           bool      `gorm:"not null;default:false"`
	SentAt         time.Time `gorm:"index:idx_conversation_sent;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
