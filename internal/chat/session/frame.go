package session

// FrameType discriminates the events multiplexed over a channel.
type FrameType string

const (
	FrameChat        FrameType = "CHAT"
	FrameTyping      FrameType = "TYPING"
	FrameReadReceipt FrameType = "READ_RECEIPT"
)

// Frame is the wire shape of every event on the persistent channel. CHAT
// frames carry Content; TYPING and READ_RECEIPT omit it.
type Frame struct {
	ConversationID uint64    `json:"conversationId"`
	SenderID       uint64    `json:"senderId"`
	ReceiverID     uint64    `json:"receiverId"`
	Content        string    `json:"content,omitempty"`
	MessageID      uint64    `json:"messageId,omitempty"`
	SentAt         int64     `json:"sentAt,omitempty"` // unix millis, CHAT only
	Type           FrameType `json:"type"`
}
