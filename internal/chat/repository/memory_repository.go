package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// MemoryLedgerRepository is an in-process LedgerRepository with the same
// atomicity guarantees as the MySQL one. It backs unit tests and local
// development without a database.
type MemoryLedgerRepository struct {
	mu sync.Mutex

	nextConvID uint64
	nextMsgID  uint64

	byPair        map[[2]uint64]uint64 // canonical pair -> conversation id
	conversations map[uint64]*dbmysql.Conversation
	messages      map[uint64][]*dbmysql.Message // conversation id -> ordered slice
}

func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{
		byPair:        make(map[[2]uint64]uint64),
		conversations: make(map[uint64]*dbmysql.Conversation),
		messages:      make(map[uint64][]*dbmysql.Message),
	}
}

func (r *MemoryLedgerRepository) GetOrCreateConversation(_ context.Context, buyerID, supplierID uint64) (*dbmysql.Conversation, error) {
	low, high := canonicalPair(buyerID, supplierID)
	key := [2]uint64{low, high}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPair[key]; ok {
		return copyConversation(r.conversations[id]), nil
	}

	r.nextConvID++
	now := time.Now()
	conv := &dbmysql.Conversation{
		ID:         r.nextConvID,
		UserLowID:  low,
		UserHighID: high,
		BuyerID:    buyerID,
		SupplierID: supplierID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.byPair[key] = conv.ID
	r.conversations[conv.ID] = conv
	return copyConversation(conv), nil
}

func (r *MemoryLedgerRepository) ConversationByID(_ context.Context, id uint64) (*dbmysql.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return copyConversation(conv), nil
}

func (r *MemoryLedgerRepository) ConversationsForUser(_ context.Context, userID uint64) ([]*dbmysql.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*dbmysql.Conversation
	for _, conv := range r.conversations {
		if !conv.HasParticipant(userID) {
			continue
		}
		cleared := conv.ClearedAtFor(userID)
		if cleared != nil && (conv.LastMessageAt == nil || !conv.LastMessageAt.After(*cleared)) {
			continue
		}
		out = append(out, copyConversation(conv))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastMessageAt, out[j].LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

func (r *MemoryLedgerRepository) ClearConversation(_ context.Context, conversationID, userID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return ErrConversationNotFound
	}
	stamp := at
	if conv.BuyerID == userID {
		conv.BuyerClearedAt = &stamp
	} else {
		conv.SupplierClearedAt = &stamp
	}
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryLedgerRepository) AppendMessage(_ context.Context, msg *dbmysql.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[msg.ConversationID]
	if !ok {
		return ErrConversationNotFound
	}

	r.nextMsgID++
	msg.ID = r.nextMsgID
	if msg.Type == "" {
		msg.Type = dbmysql.MessageTypeChat
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	stored := *msg
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &stored)

	sentAt := msg.SentAt
	conv.LastMessage = snippet(msg.Content)
	conv.LastMessageAt = &sentAt
	if conv.BuyerID == msg.ReceiverID {
		conv.UnreadForBuyer++
	} else {
		conv.UnreadForSupplier++
	}
	conv.UpdatedAt = now
	return nil
}

func (r *MemoryLedgerRepository) MessagesForConversation(_ context.Context, conversationID uint64) ([]*dbmysql.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages[conversationID]
	out := make([]*dbmysql.Message, len(msgs))
	for i, m := range msgs {
		c := *m
		out[i] = &c
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (r *MemoryLedgerRepository) MarkConversationRead(_ context.Context, conversationID, readerID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return ErrConversationNotFound
	}

	for _, m := range r.messages[conversationID] {
		if m.ReceiverID == readerID && !m.Read {
			m.Read = true
			m.UpdatedAt = time.Now()
		}
	}
	if conv.BuyerID == readerID {
		conv.UnreadForBuyer = 0
	} else {
		conv.UnreadForSupplier = 0
	}
	return nil
}

func copyConversation(conv *dbmysql.Conversation) *dbmysql.Conversation {
	c := *conv
	return &c
}
