// Package client holds the client-side Connection Manager: it supervises one
// outbound persistent channel per process and tells callers when to use the
// REST fallback instead.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
)

// State is the connection lifecycle: Idle -> Connecting -> Connected, or
// Connecting -> Disconnected on timeout/error. Disconnected is degraded mode,
// not a failure; callers keep working over REST.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// DefaultHandshakeTimeout bounds the websocket dial. On expiry the manager
// settles into Disconnected and the caller proceeds over REST.
const DefaultHandshakeTimeout = 5 * time.Second

// ConnManager owns zero or one session channel at a time. It is constructed
// per active user session, never shared process-wide.
type ConnManager struct {
	baseURL          string
	handshakeTimeout time.Duration
	logger           *logrus.Logger

	mu     sync.Mutex
	state  State
	userID uint64
	ch     *session.Channel

	events chan session.Frame
}

func NewConnManager(baseURL string, handshakeTimeout time.Duration, logger *logrus.Logger) *ConnManager {
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	return &ConnManager{
		baseURL:          baseURL,
		handshakeTimeout: handshakeTimeout,
		logger:           logger,
		state:            StateIdle,
		events:           make(chan session.Frame, 256),
	}
}

// Connect opens the persistent channel and subscribes it to the user's
// private inbound route. Concurrent calls while already connecting or
// connected are no-ops. A handshake timeout or dial error is not returned as
// an error: the manager transitions to Disconnected and the caller falls back
// to REST.
func (m *ConnManager) Connect(ctx context.Context, userID uint64) State {
	m.mu.Lock()
	if m.state == StateConnecting || m.state == StateConnected {
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.state = StateConnecting
	m.userID = userID
	m.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: m.handshakeTimeout}
	url := fmt.Sprintf("%s/ws?userId=%d", m.baseURL, userID)

	dialCtx, cancel := context.WithTimeout(ctx, m.handshakeTimeout)
	defer cancel()

	ws, resp, err := dialer.DialContext(dialCtx, url, http.Header{})
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		m.logger.WithError(err).WithField("user_id", userID).
			Info("handshake failed, continuing in REST fallback mode")
		m.mu.Lock()
		if m.state == StateConnecting {
			m.state = StateDisconnected
		}
		state := m.state
		m.mu.Unlock()
		return state
	}

	ch := session.NewChannel(userID, ws, m.logger, 256, 30*time.Second)
	ch.OnFrame(m.dispatch)

	// A Disconnect issued while the dial was in flight wins: the fresh
	// socket is discarded instead of resurrecting the connection.
	m.mu.Lock()
	if m.state != StateConnecting {
		state := m.state
		m.mu.Unlock()
		ch.Close()
		return state
	}
	m.ch = ch
	m.state = StateConnected
	m.mu.Unlock()

	ch.Start()
	go m.watch(ch)
	return StateConnected
}

// Disconnect releases the channel and clears the subscription. Idempotent;
// always invoked when the participant's identity changes or the process is
// torn down.
func (m *ConnManager) Disconnect() {
	m.mu.Lock()
	ch := m.ch
	m.ch = nil
	m.state = StateIdle
	m.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
}

// Send pushes a frame over the live channel. session.ErrChannelUnavailable
// tells the caller to use the REST gateway for this operation.
func (m *ConnManager) Send(f session.Frame) error {
	m.mu.Lock()
	ch := m.ch
	state := m.state
	m.mu.Unlock()

	if state != StateConnected || ch == nil {
		return session.ErrChannelUnavailable
	}
	return ch.Send(f)
}

// Events exposes the inbound frames (CHAT, TYPING, READ_RECEIPT) for the
// consuming layer to drain; no callbacks are invoked on the reader goroutine.
func (m *ConnManager) Events() <-chan session.Frame {
	return m.events
}

// State returns the current lifecycle state.
func (m *ConnManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *ConnManager) dispatch(f session.Frame) {
	select {
	case m.events <- f:
	default:
		// A consumer that stopped draining loses ephemeral frames; the
		// ledger remains the source of truth for chat history.
		m.logger.WithField("type", f.Type).Warn("event queue full, frame dropped")
	}
}

// watch transitions to Disconnected when the underlying transport dies, so
// subsequent Sends route callers to the fallback. Reconnection is a caller
// decision; there is no automatic retry loop here.
func (m *ConnManager) watch(ch *session.Channel) {
	<-ch.Closed()

	m.mu.Lock()
	if m.ch == ch {
		m.ch = nil
		if m.state == StateConnected {
			m.state = StateDisconnected
		}
	}
	m.mu.Unlock()
}
