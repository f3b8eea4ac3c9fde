package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// ErrConversationNotFound is returned when a conversation id resolves to
// nothing.
var ErrConversationNotFound = errors.New("conversation not found")

type mysqlLedgerRepo struct {
	db *gorm.DB
}

// NewLedgerRepository returns the MySQL-backed LedgerRepository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &mysqlLedgerRepo{db: db}
}

func (r *mysqlLedgerRepo) GetOrCreateConversation(ctx context.Context, buyerID, supplierID uint64) (*dbmysql.Conversation, error) {
	low, high := canonicalPair(buyerID, supplierID)

	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = dbmysql.Conversation{
		UserLowID:  low,
		UserHighID: high,
		BuyerID:    buyerID,
		SupplierID: supplierID,
	}
	err = r.db.WithContext(ctx).Create(&conv).Error
	if err == nil {
		return &conv, nil
	}

	// Lost the insert race against the other participant's first contact;
	// the unique pair index guarantees the row now exists.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing dbmysql.Conversation
		if ferr := r.db.WithContext(ctx).
			Where("user_low_id = ? AND user_high_id = ?", low, high).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
	}
	return nil, err
}

func (r *mysqlLedgerRepo) ConversationByID(ctx context.Context, id uint64) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *mysqlLedgerRepo) ConversationsForUser(ctx context.Context, userID uint64) ([]*dbmysql.Conversation, error) {
	var convs []*dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("(buyer_id = ? AND (buyer_cleared_at IS NULL OR last_message_at > buyer_cleared_at))"+
			" OR (supplier_id = ? AND (supplier_cleared_at IS NULL OR last_message_at > supplier_cleared_at))",
			userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *mysqlLedgerRepo) ClearConversation(ctx context.Context, conversationID, userID uint64, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := lockConversation(tx, conversationID)
		if err != nil {
			return err
		}

		column := "supplier_cleared_at"
		if conv.BuyerID == userID {
			column = "buyer_cleared_at"
		}
		return tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", conversationID).
			Update(column, at).Error
	})
}

func (r *mysqlLedgerRepo) AppendMessage(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := lockConversation(tx, msg.ConversationID)
		if err != nil {
			return err
		}

		if msg.Type == "" {
			msg.Type = dbmysql.MessageTypeChat
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		unreadColumn := "unread_for_supplier"
		if conv.BuyerID == msg.ReceiverID {
			unreadColumn = "unread_for_buyer"
		}
		return tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message":    snippet(msg.Content),
				"last_message_at": msg.SentAt,
				unreadColumn:      gorm.Expr(unreadColumn+" + 1"),
			}).Error
	})
}

func (r *mysqlLedgerRepo) MessagesForConversation(ctx context.Context, conversationID uint64) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mysqlLedgerRepo) MarkConversationRead(ctx context.Context, conversationID, readerID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := lockConversation(tx, conversationID)
		if err != nil {
			return err
		}

		if err := tx.Model(&dbmysql.Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND `read` = ?", conversationID, readerID, false).
			Update("read", true).Error; err != nil {
			return err
		}

		unreadColumn := "unread_for_supplier"
		if conv.BuyerID == readerID {
			unreadColumn = "unread_for_buyer"
		}
		return tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", conversationID).
			Update(unreadColumn, 0).Error
	})
}

// lockConversation fetches the conversation row under FOR UPDATE so that
// concurrent mutations to the same conversation serialize at the store.
func lockConversation(tx *gorm.DB, id uint64) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := tx.Raw("SELECT * FROM conversations WHERE id = ? FOR UPDATE", id).Scan(&conv).Error
	if err != nil {
		return nil, err
	}
	if conv.ID == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrConversationNotFound, id)
	}
	return &conv, nil
}
