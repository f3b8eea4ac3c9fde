package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/presence"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/repository"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// LiveRegistry is the dispatcher's view of connected sessions. Send returns
// session.ErrChannelUnavailable when the user has no addressable channel.
type LiveRegistry interface {
	Send(userID uint64, f session.Frame) error
}

// Dispatcher is the routing and consistency core. The ledger write is always
// the source of truth; live delivery is a latency optimization on top of it.
type Dispatcher struct {
	repo     repository.LedgerRepository
	ledger   *Ledger
	registry LiveRegistry
	presence presence.Tracker
	logger   *logrus.Logger

	// One mutex per conversation so the write-then-push sequence is
	// serialized without cross-conversation contention.
	convLocks sync.Map // conversationID -> *sync.Mutex
}

func NewDispatcher(repo repository.LedgerRepository, ledger *Ledger, registry LiveRegistry, tracker presence.Tracker, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		ledger:   ledger,
		registry: registry,
		presence: tracker,
		logger:   logger,
	}
}

func (d *Dispatcher) lockConversation(conversationID uint64) *sync.Mutex {
	v, _ := d.convLocks.LoadOrStore(conversationID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// SubmitChat persists the message (atomically with the receiver's unread
// counter and the conversation's lastMessage) and then best-effort pushes a
// CHAT frame to the receiver's live channel. The persisted message is
// returned so the sender's UI can echo it immediately.
func (d *Dispatcher) SubmitChat(ctx context.Context, conversationID, senderID, receiverID uint64, content string) (*dbmysql.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is empty", ErrInvalidInput)
	}
	if senderID == 0 || receiverID == 0 {
		return nil, fmt.Errorf("%w: sender and receiver ids are required", ErrInvalidInput)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: sender and receiver must differ", ErrInvalidInput)
	}

	conv, err := d.ledger.Get(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(receiverID) {
		return nil, ErrNotParticipant
	}

	mu := d.lockConversation(conversationID)
	mu.Lock()
	defer mu.Unlock()

	msg := &dbmysql.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Type:           dbmysql.MessageTypeChat,
		SentAt:         time.Now().UTC(),
	}
	if err := d.repo.AppendMessage(ctx, msg); err != nil {
		return nil, storeErr(err)
	}

	// Sending a message implies the sender stopped typing.
	if err := d.presence.ClearTyping(ctx, conversationID, senderID); err != nil {
		d.logger.WithError(err).Debug("clear typing failed")
	}

	d.pushFrame(receiverID, session.Frame{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        msg.Content,
		MessageID:      msg.ID,
		SentAt:         msg.SentAt.UnixMilli(),
		Type:           session.FrameChat,
	})

	return msg, nil
}

// SubmitTyping records the ephemeral typing signal and forwards it to the
// receiver only if connected. There is no fallback and no user-visible error:
// typing presence is perishable by design.
func (d *Dispatcher) SubmitTyping(ctx context.Context, conversationID, senderID, receiverID uint64) {
	if conversationID == 0 || senderID == 0 || receiverID == 0 || senderID == receiverID {
		return
	}
	if err := d.presence.SetTyping(ctx, conversationID, senderID); err != nil {
		d.logger.WithError(err).Debug("set typing failed")
		return
	}
	d.pushFrame(receiverID, session.Frame{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Type:           session.FrameTyping,
	})
}

// SubmitReadReceipt marks every message addressed to readerID as read, resets
// that side's unread counter, and notifies the other participant's live
// channel so their UI can flip message state without a refetch. Idempotent.
func (d *Dispatcher) SubmitReadReceipt(ctx context.Context, conversationID, readerID uint64) error {
	conv, err := d.ledger.Get(ctx, conversationID, readerID)
	if err != nil {
		return err
	}

	mu := d.lockConversation(conversationID)
	mu.Lock()
	defer mu.Unlock()

	if err := d.repo.MarkConversationRead(ctx, conversationID, readerID); err != nil {
		return storeErr(err)
	}

	d.pushFrame(conv.PeerOf(readerID), session.Frame{
		ConversationID: conversationID,
		SenderID:       readerID,
		ReceiverID:     conv.PeerOf(readerID),
		Type:           session.FrameReadReceipt,
	})
	return nil
}

// pushFrame attempts live delivery. A missing or failed channel is logged and
// otherwise ignored: the receiver will catch up over REST.
func (d *Dispatcher) pushFrame(userID uint64, f session.Frame) {
	if err := d.registry.Send(userID, f); err != nil {
		if !errors.Is(err, session.ErrChannelUnavailable) {
			d.logger.WithError(err).WithField("user_id", userID).Warn("live delivery failed")
		}
	}
}
