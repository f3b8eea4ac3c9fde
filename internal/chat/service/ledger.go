package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/repository"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// Ledger is the authoritative conversation store and query surface. It owns
// participant authorization; the repository below it owns atomicity.
type Ledger struct {
	repo repository.LedgerRepository
}

func NewLedger(repo repository.LedgerRepository) *Ledger {
	return &Ledger{repo: repo}
}

// GetOrCreate returns the conversation for the pair, creating it on first
// contact. Idempotent and role-agnostic: (a,b) and (b,a) resolve to the same
// conversation.
func (l *Ledger) GetOrCreate(ctx context.Context, userAID, userBID uint64) (*dbmysql.Conversation, error) {
	if userAID == 0 || userBID == 0 {
		return nil, fmt.Errorf("%w: both user ids are required", ErrInvalidInput)
	}
	if userAID == userBID {
		return nil, fmt.Errorf("%w: a conversation needs two distinct users", ErrInvalidInput)
	}

	conv, err := l.repo.GetOrCreateConversation(ctx, userAID, userBID)
	if err != nil {
		return nil, storeErr(err)
	}
	return conv, nil
}

// ListForUser returns the user's visible conversations: cleared ones stay
// hidden until a newer message arrives.
func (l *Ledger) ListForUser(ctx context.Context, userID uint64) ([]*dbmysql.Conversation, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	convs, err := l.repo.ConversationsForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return convs, nil
}

// Get returns a conversation the user participates in.
func (l *Ledger) Get(ctx context.Context, conversationID, userID uint64) (*dbmysql.Conversation, error) {
	conv, err := l.repo.ConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %d", ErrInvalidInput, conversationID)
		}
		return nil, storeErr(err)
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// Clear hides the conversation from the user's own view. Message rows and the
// other side's view are untouched; a later message makes it reappear.
func (l *Ledger) Clear(ctx context.Context, conversationID, userID uint64) error {
	if _, err := l.Get(ctx, conversationID, userID); err != nil {
		return err
	}
	if err := l.repo.ClearConversation(ctx, conversationID, userID, time.Now().UTC()); err != nil {
		return storeErr(err)
	}
	return nil
}

// MessagesFor returns the conversation's messages in ascending (sentAt, id)
// order, after checking that userID is a participant.
func (l *Ledger) MessagesFor(ctx context.Context, conversationID, userID uint64) ([]*dbmysql.Message, error) {
	if _, err := l.Get(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	messages, err := l.repo.MessagesForConversation(ctx, conversationID)
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

// storeErr classifies persistence failures as StoreUnavailable while keeping
// the underlying cause in the chain.
func storeErr(err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotParticipant) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
