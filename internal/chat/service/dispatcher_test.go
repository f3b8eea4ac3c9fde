package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/presence"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/repository"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
)

// fakeRegistry records pushed frames for users marked online and reports
// everyone else unavailable.
type fakeRegistry struct {
	mu     sync.Mutex
	online map[uint64]bool
	frames map[uint64][]session.Frame
}

func newFakeRegistry(onlineUsers ...uint64) *fakeRegistry {
	online := make(map[uint64]bool)
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakeRegistry{online: online, frames: make(map[uint64][]session.Frame)}
}

func (f *fakeRegistry) Send(userID uint64, frame session.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online[userID] {
		return session.ErrChannelUnavailable
	}
	f.frames[userID] = append(f.frames[userID], frame)
	return nil
}

func (f *fakeRegistry) framesFor(userID uint64) []session.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]session.Frame, len(f.frames[userID]))
	copy(out, f.frames[userID])
	return out
}

func newTestDispatcher(t *testing.T, reg LiveRegistry) (*Dispatcher, *repository.MemoryLedgerRepository) {
	t.Helper()
	repo := repository.NewMemoryLedgerRepository()
	tracker := presence.NewMemoryTracker(time.Second)
	t.Cleanup(tracker.Stop)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewDispatcher(repo, NewLedger(repo), reg, tracker, logger), repo
}

func TestDispatcher_SubmitChatValidation(t *testing.T) {
	reg := newFakeRegistry()
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	tests := []struct {
		name     string
		sender   uint64
		receiver uint64
		content  string
		wantErr  error
	}{
		{"empty content", 10, 20, "", ErrInvalidInput},
		{"whitespace only content", 10, 20, "   \t\n", ErrInvalidInput},
		{"sender not participant", 99, 20, "hi", ErrNotParticipant},
		{"receiver not participant", 10, 99, "hi", ErrNotParticipant},
		{"self addressed", 10, 10, "hi", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := d.SubmitChat(ctx, conv.ID, tt.sender, tt.receiver, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, msg)
		})
	}

	// Nothing was persisted by the rejected submissions.
	messages, err := repo.MessagesForConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDispatcher_SubmitChatOfflineReceiver(t *testing.T) {
	reg := newFakeRegistry() // nobody online
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	msg, err := d.SubmitChat(ctx, conv.ID, 20, 10, "Hello")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotZero(t, msg.ID, "persisted message is returned for local echo")

	// Fallback parity: the write happened exactly once even though live
	// delivery failed.
	updated, err := repo.ConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.LastMessage)
	assert.Equal(t, 1, updated.UnreadForBuyer)

	messages, err := repo.MessagesForConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].Read)
}

func TestDispatcher_SubmitChatLiveDelivery(t *testing.T) {
	reg := newFakeRegistry(10)
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	msg, err := d.SubmitChat(ctx, conv.ID, 20, 10, "Hello")
	require.NoError(t, err)

	frames := reg.framesFor(10)
	require.Len(t, frames, 1)
	assert.Equal(t, session.FrameChat, frames[0].Type)
	assert.Equal(t, "Hello", frames[0].Content)
	assert.Equal(t, msg.ID, frames[0].MessageID)
	assert.Equal(t, uint64(20), frames[0].SenderID)
}

func TestDispatcher_PerConversationOrdering(t *testing.T) {
	reg := newFakeRegistry(10)
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	const sends = 30
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.SubmitChat(ctx, conv.ID, 20, 10, fmt.Sprintf("m%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Live frames must arrive in persistence order: message ids strictly
	// increasing as observed by the receiver.
	frames := reg.framesFor(10)
	require.Len(t, frames, sends)
	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].MessageID, frames[i-1].MessageID,
			"frame %d observed out of persistence order", i)
	}

	// And the ledger ordering matches (sentAt, id) ascending.
	messages, err := repo.MessagesForConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, sends)
	for i := 1; i < len(messages); i++ {
		assert.Less(t, messages[i-1].ID, messages[i].ID)
		assert.False(t, messages[i].SentAt.Before(messages[i-1].SentAt))
	}
}

func TestDispatcher_SubmitTyping(t *testing.T) {
	reg := newFakeRegistry(10)
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	d.SubmitTyping(ctx, conv.ID, 20, 10)

	frames := reg.framesFor(10)
	require.Len(t, frames, 1)
	assert.Equal(t, session.FrameTyping, frames[0].Type)
	assert.Empty(t, frames[0].Content)

	// Typing never touches persistence.
	messages, err := repo.MessagesForConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// Offline receiver: the event is simply dropped, no error anywhere.
	d.SubmitTyping(ctx, conv.ID, 10, 20)
	assert.Empty(t, reg.framesFor(20))
}

func TestDispatcher_SubmitReadReceiptIdempotent(t *testing.T) {
	reg := newFakeRegistry(20)
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)
	_, err = d.SubmitChat(ctx, conv.ID, 20, 10, "Hello")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.SubmitReadReceipt(ctx, conv.ID, 10))
	}

	updated, err := repo.ConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.UnreadForBuyer)

	messages, err := repo.MessagesForConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)

	// The sender's live channel was notified so its UI can update.
	var receipts int
	for _, f := range reg.framesFor(20) {
		if f.Type == session.FrameReadReceipt {
			receipts++
		}
	}
	assert.Equal(t, 3, receipts)
}

func TestDispatcher_SubmitReadReceiptRejectsNonParticipant(t *testing.T) {
	reg := newFakeRegistry()
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)

	assert.ErrorIs(t, d.SubmitReadReceipt(ctx, conv.ID, 99), ErrNotParticipant)
}

func TestDispatcher_ClearReappearOnNewMessage(t *testing.T) {
	reg := newFakeRegistry()
	d, repo := newTestDispatcher(t, reg)
	ctx := context.Background()
	ledger := NewLedger(repo)

	conv, err := repo.GetOrCreateConversation(ctx, 10, 20)
	require.NoError(t, err)
	_, err = d.SubmitChat(ctx, conv.ID, 20, 10, "first")
	require.NoError(t, err)

	require.NoError(t, ledger.Clear(ctx, conv.ID, 10))
	convs, err := ledger.ListForUser(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, convs)

	// SubmitChat after the clear brings the conversation back for the
	// clearing user.
	time.Sleep(5 * time.Millisecond)
	_, err = d.SubmitChat(ctx, conv.ID, 20, 10, "are you there?")
	require.NoError(t, err)

	convs, err = ledger.ListForUser(ctx, 10)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, conv.ID, convs[0].ID)
}
