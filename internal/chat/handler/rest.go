// Package handler exposes the messaging core over HTTP: the fallback REST
// gateway and the websocket endpoint. Both paths delegate to the same
// dispatcher and ledger, so a client alternating between them sees one
// consistent conversation history.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/service"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
)

// RestHandler is the stateless request/response surface mirroring the
// channel's operations, used when no live channel exists and for initial
// page loads.
type RestHandler struct {
	ledger     *service.Ledger
	dispatcher *service.Dispatcher
	logger     *logrus.Logger
}

func NewRestHandler(ledger *service.Ledger, dispatcher *service.Dispatcher, logger *logrus.Logger) *RestHandler {
	return &RestHandler{ledger: ledger, dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes mounts the REST surface on the router.
func (h *RestHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/conversations/user/{userId}", h.ListConversations).Methods(http.MethodGet)
	r.HandleFunc("/conversations/create", h.StartConversation).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/messages", h.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/read", h.MarkRead).Methods(http.MethodPut)
	r.HandleFunc("/conversations/{id}/clear", h.ClearConversation).Methods(http.MethodDelete)
	r.HandleFunc("/messages/send", h.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
}

type conversationView struct {
	ID                uint64     `json:"id"`
	BuyerID           uint64     `json:"buyerId"`
	SupplierID        uint64     `json:"supplierId"`
	PeerID            uint64     `json:"peerId,omitempty"`
	LastMessage       string     `json:"lastMessage,omitempty"`
	LastMessageAt     *time.Time `json:"lastMessageAt,omitempty"`
	UnreadCount       int        `json:"unreadCount"`
	UnreadForBuyer    int        `json:"unreadForBuyer"`
	UnreadForSupplier int        `json:"unreadForSupplier"`
	BuyerClearedAt    *time.Time `json:"buyerClearedAt,omitempty"`
	SupplierClearedAt *time.Time `json:"supplierClearedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type messageView struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversationId"`
	SenderID       uint64    `json:"senderId"`
	ReceiverID     uint64    `json:"receiverId"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	Read           bool      `json:"read"`
	SentAt         time.Time `json:"sentAt"`
}

func toConversationView(conv *dbmysql.Conversation, viewerID uint64) conversationView {
	v := conversationView{
		ID:                conv.ID,
		BuyerID:           conv.BuyerID,
		SupplierID:        conv.SupplierID,
		LastMessage:       conv.LastMessage,
		LastMessageAt:     conv.LastMessageAt,
		UnreadForBuyer:    conv.UnreadForBuyer,
		UnreadForSupplier: conv.UnreadForSupplier,
		BuyerClearedAt:    conv.BuyerClearedAt,
		SupplierClearedAt: conv.SupplierClearedAt,
		CreatedAt:         conv.CreatedAt,
	}
	if viewerID != 0 && conv.HasParticipant(viewerID) {
		v.PeerID = conv.PeerOf(viewerID)
		v.UnreadCount = conv.UnreadFor(viewerID)
	}
	return v
}

func toMessageView(m *dbmysql.Message) messageView {
	return messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Type:           m.Type,
		Read:           m.Read,
		SentAt:         m.SentAt,
	}
}

// ListConversations handles GET /conversations/user/{userId}.
func (h *RestHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	convs, err := h.ledger.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]conversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, toConversationView(conv, userID))
	}
	respondJSON(w, http.StatusOK, views)
}

type startConversationRequest struct {
	User1ID uint64 `json:"user1Id"`
	User2ID uint64 `json:"user2Id"`
}

// StartConversation handles POST /conversations/create. Idempotent
// get-or-create.
func (h *RestHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.ledger.GetOrCreate(r.Context(), req.User1ID, req.User2ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toConversationView(conv, req.User1ID))
}

// ListMessages handles GET /conversations/{id}/messages?userId=. The userId
// must be a participant.
func (h *RestHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}

	messages, err := h.ledger.MessagesFor(r.Context(), conversationID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, toMessageView(m))
	}
	respondJSON(w, http.StatusOK, views)
}

type sendMessageRequest struct {
	ConversationID uint64 `json:"conversationId"`
	ToUserID       uint64 `json:"toUserId"`
	SenderID       uint64 `json:"senderId"`
	ReceiverID     uint64 `json:"receiverId"`
	Content        string `json:"content"`
}

// SendMessage handles POST /messages/send. Accepts either an existing
// conversationId or a toUserId for first contact; the write path is identical
// to the live channel's.
func (h *RestHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversationID := req.ConversationID
	receiverID := req.ReceiverID
	if conversationID == 0 {
		if req.ToUserID == 0 {
			respondError(w, http.StatusBadRequest, "conversationId or toUserId is required")
			return
		}
		conv, err := h.ledger.GetOrCreate(r.Context(), req.SenderID, req.ToUserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		conversationID = conv.ID
		receiverID = req.ToUserID
	}

	msg, err := h.dispatcher.SubmitChat(r.Context(), conversationID, req.SenderID, receiverID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageView(msg))
}

// MarkRead handles PUT /conversations/{id}/read?userId=. Idempotent.
func (h *RestHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.dispatcher.SubmitReadReceipt(r.Context(), conversationID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ClearConversation handles DELETE /conversations/{id}/clear?userId=.
func (h *RestHandler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.ledger.Clear(r.Context(), conversationID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Health handles GET /healthz.
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
