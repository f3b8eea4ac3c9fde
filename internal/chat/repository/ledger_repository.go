package repository

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// LastMessageSnippetLen caps the snippet copied onto the conversation row.
const LastMessageSnippetLen = 255

// LedgerRepository is the durable conversation/message store behind the
// Conversation Ledger. Mutating operations on a single conversation must be
// atomic: AppendMessage writes the message row and the conversation counters
// in one transaction, MarkConversationRead flips message flags and resets the
// reader's counter in one transaction.
type LedgerRepository interface {
	// GetOrCreateConversation canonicalizes the (buyer, supplier) pair and
	// returns the existing conversation or atomically creates one. Safe
	// under concurrent first contact from both sides.
	GetOrCreateConversation(ctx context.Context, buyerID, supplierID uint64) (*dbmysql.Conversation, error)

	ConversationByID(ctx context.Context, id uint64) (*dbmysql.Conversation, error)

	// ConversationsForUser returns conversations the user participates in,
	// filtered by their clear marker: cleared conversations reappear once
	// lastMessageAt passes clearedAt.
	ConversationsForUser(ctx context.Context, userID uint64) ([]*dbmysql.Conversation, error)

	// ClearConversation stamps the user's side with the given time. The
	// other side's view and all message rows are untouched.
	ClearConversation(ctx context.Context, conversationID, userID uint64, at time.Time) error

	// AppendMessage persists msg and, in the same transaction, bumps the
	// receiver's unread counter and refreshes lastMessage/lastMessageAt.
	AppendMessage(ctx context.Context, msg *dbmysql.Message) error

	// MessagesForConversation returns messages in ascending (sentAt, id)
	// order.
	MessagesForConversation(ctx context.Context, conversationID uint64) ([]*dbmysql.Message, error)

	// MarkConversationRead marks every message addressed to readerID as
	// read and zeroes that side's unread counter. Idempotent.
	MarkConversationRead(ctx context.Context, conversationID, readerID uint64) error
}

func canonicalPair(a, b uint64) (low, high uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// snippet caps the content at LastMessageSnippetLen bytes without splitting a
// rune, so the stored value is always valid UTF-8.
func snippet(content string) string {
	if len(content) <= LastMessageSnippetLen {
		return content
	}
	cut := LastMessageSnippetLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
