package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/service"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/common"
)

// frameHandleTimeout bounds the ledger work triggered by one inbound frame.
const frameHandleTimeout = 10 * time.Second

// WSHandler upgrades a request to the user's persistent channel and bridges
// inbound frames into the dispatcher. Each connected session is subscribed
// only to its own userId; frames for other users never reach this channel.
type WSHandler struct {
	registry   *session.Registry
	dispatcher *service.Dispatcher
	logger     *logrus.Logger

	upgrader   websocket.Upgrader
	bufSize    int
	pingPeriod time.Duration
}

func NewWSHandler(registry *session.Registry, dispatcher *service.Dispatcher, logger *logrus.Logger, bufSize int, pingPeriod time.Duration) *WSHandler {
	return &WSHandler{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		bufSize:    bufSize,
		pingPeriod: pingPeriod,
	}
}

// Serve handles GET /ws. The user's identity comes from the auth middleware
// when a token is present, otherwise from the userId query parameter; the
// messaging core trusts the resolved id.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		var err error
		userID, err = strconv.ParseUint(r.URL.Query().Get("userId"), 10, 64)
		if err != nil || userID == 0 {
			respondError(w, http.StatusBadRequest, "userId is required")
			return
		}
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ch := session.NewChannel(userID, ws, h.logger, h.bufSize, h.pingPeriod)
	ch.OnFrame(func(f session.Frame) { h.handleFrame(userID, f) })
	h.registry.Register(ch)
	ch.Start()

	h.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": ch.ID,
	}).Info("channel connected")

	go func() {
		<-ch.Closed()
		h.registry.Unregister(ch)
		h.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": ch.ID,
		}).Info("channel closed")
	}()
}

// handleFrame demultiplexes inbound frames by type. The sender id is forced
// to the authenticated channel owner so one user cannot speak as another.
func (h *WSHandler) handleFrame(userID uint64, f session.Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), frameHandleTimeout)
	defer cancel()

	switch f.Type {
	case session.FrameChat:
		if _, err := h.dispatcher.SubmitChat(ctx, f.ConversationID, userID, f.ReceiverID, f.Content); err != nil {
			h.logger.WithError(err).WithField("user_id", userID).Warn("inbound chat rejected")
		}
	case session.FrameTyping:
		h.dispatcher.SubmitTyping(ctx, f.ConversationID, userID, f.ReceiverID)
	case session.FrameReadReceipt:
		if err := h.dispatcher.SubmitReadReceipt(ctx, f.ConversationID, userID); err != nil {
			h.logger.WithError(err).WithField("user_id", userID).Warn("inbound read receipt rejected")
		}
	default:
		h.logger.WithField("type", f.Type).Debug("unknown frame type dropped")
	}
}
