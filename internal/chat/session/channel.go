package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// ErrChannelUnavailable is returned by Send when the channel can no longer
// deliver frames. Callers treat it as the signal to use the REST path.
var ErrChannelUnavailable = errors.New("session channel unavailable")

// Channel wraps a websocket and coordinates outbound writes via a buffered
// channel. A Channel is uniquely identified per user session and is safe for
// concurrent use.
type Channel struct {
	ID     string
	UserID uint64

	ws         *websocket.Conn
	logger     *logrus.Logger
	send       chan Frame
	close      chan struct{}
	once       sync.Once
	pingPeriod time.Duration

	handlerMu sync.RWMutex
	handler   func(Frame)
}

// NewChannel constructs a Channel for the given user over an established
// websocket connection.
func NewChannel(userID uint64, ws *websocket.Conn, logger *logrus.Logger, bufSize int, pingPeriod time.Duration) *Channel {
	if bufSize <= 0 {
		bufSize = 128
	}
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	return &Channel{
		ID:         uuid.NewString(),
		UserID:     userID,
		ws:         ws,
		logger:     logger,
		send:       make(chan Frame, bufSize),
		close:      make(chan struct{}),
		pingPeriod: pingPeriod,
	}
}

// Start launches the read and write loops. It must be called exactly once.
func (c *Channel) Start() {
	go c.writeLoop()
	go c.readLoop()
}

// OnFrame registers the inbound frame handler. Exactly one handler is active;
// a later registration replaces the former.
func (c *Channel) OnFrame(h func(Frame)) {
	c.handlerMu.Lock()
	c.handler = h
	c.handlerMu.Unlock()
}

// Send enqueues a frame for delivery. If the peer is slow and the buffer is
// full, the channel is closed to keep backpressure bounded; the caller gets
// ErrChannelUnavailable either way and falls back to REST.
func (c *Channel) Send(f Frame) error {
	select {
	case <-c.close:
		return ErrChannelUnavailable
	case c.send <- f:
		return nil
	default:
		c.Close()
		return ErrChannelUnavailable
	}
}

// Closed exposes the connection-state signal: it is closed once the channel
// is no longer usable.
func (c *Channel) Closed() <-chan struct{} {
	return c.close
}

// Close terminates the channel and stops both loops. Close is idempotent;
// double-close is a no-op.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Channel) writeLoop() {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case f := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(f); err != nil {
				c.logger.WithError(err).WithField("user_id", c.UserID).Warn("channel write failed")
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Channel) readLoop() {
	defer c.Close()

	for {
		var f Frame
		if err := c.ws.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.WithError(err).WithField("user_id", c.UserID).Debug("channel read ended")
			}
			return
		}

		c.handlerMu.RLock()
		h := c.handler
		c.handlerMu.RUnlock()
		if h != nil {
			h(f)
		}
	}
}
