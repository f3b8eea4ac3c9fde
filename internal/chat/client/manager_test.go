package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// startWSServer runs a websocket endpoint that pushes every queued frame to
// the connecting client.
func startWSServer(t *testing.T, outbound []session.Frame) string {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, f := range outbound {
			_ = ws.WriteJSON(f)
		}
		// Keep the connection open until the client goes away.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnManager_ConnectSuccess(t *testing.T) {
	url := startWSServer(t, nil)
	m := NewConnManager(url, time.Second, testLogger())
	defer m.Disconnect()

	state := m.Connect(context.Background(), 10)
	assert.Equal(t, StateConnected, state)
	assert.Equal(t, StateConnected, m.State())
}

func TestConnManager_HandshakeTimeoutFallsBack(t *testing.T) {
	// Nothing listens here; the dial must fail within the handshake bound
	// and settle into Disconnected without an error.
	m := NewConnManager("ws://127.0.0.1:1", 200*time.Millisecond, testLogger())

	start := time.Now()
	state := m.Connect(context.Background(), 10)

	assert.Equal(t, StateDisconnected, state)
	assert.Equal(t, StateDisconnected, m.State())
	assert.Less(t, time.Since(start), 5*time.Second, "handshake must be bounded")

	// Degraded mode: sends report ChannelUnavailable so the caller takes
	// the REST path.
	err := m.Send(session.Frame{Type: session.FrameChat, Content: "x"})
	assert.ErrorIs(t, err, session.ErrChannelUnavailable)
}

func TestConnManager_ConcurrentConnectIsNoOp(t *testing.T) {
	url := startWSServer(t, nil)
	m := NewConnManager(url, time.Second, testLogger())
	defer m.Disconnect()

	var wg sync.WaitGroup
	states := make([]State, 8)
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = m.Connect(context.Background(), 10)
		}(i)
	}
	wg.Wait()

	for _, s := range states {
		assert.Contains(t, []State{StateConnecting, StateConnected}, s)
	}
	assert.Equal(t, StateConnected, m.State())
}

func TestConnManager_DisconnectIsIdempotent(t *testing.T) {
	url := startWSServer(t, nil)
	m := NewConnManager(url, time.Second, testLogger())

	require.Equal(t, StateConnected, m.Connect(context.Background(), 10))

	m.Disconnect()
	assert.NotPanics(t, m.Disconnect)
	assert.Equal(t, StateIdle, m.State())

	err := m.Send(session.Frame{Type: session.FrameChat, Content: "x"})
	assert.ErrorIs(t, err, session.ErrChannelUnavailable)
}

func TestConnManager_DisconnectDuringDialWins(t *testing.T) {
	// The handler holds the handshake open until released, so Disconnect can
	// land while the dial is still in flight.
	gate := make(chan struct{})
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-gate
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	m := NewConnManager("ws"+strings.TrimPrefix(srv.URL, "http"), 5*time.Second, testLogger())

	result := make(chan State, 1)
	go func() { result <- m.Connect(context.Background(), 10) }()

	require.Eventually(t, func() bool { return m.State() == StateConnecting },
		time.Second, 10*time.Millisecond)

	m.Disconnect()
	close(gate)

	select {
	case state := <-result:
		assert.Equal(t, StateIdle, state, "teardown during the dial must not be undone")
	case <-time.After(5 * time.Second):
		t.Fatal("Connect never returned")
	}

	assert.Equal(t, StateIdle, m.State())
	err := m.Send(session.Frame{Type: session.FrameChat, Content: "x"})
	assert.ErrorIs(t, err, session.ErrChannelUnavailable)
}

func TestConnManager_EventsDemultiplexed(t *testing.T) {
	frames := []session.Frame{
		{ConversationID: 1, SenderID: 20, ReceiverID: 10, Content: "hi", Type: session.FrameChat},
		{ConversationID: 1, SenderID: 20, ReceiverID: 10, Type: session.FrameTyping},
		{ConversationID: 1, SenderID: 20, ReceiverID: 10, Type: session.FrameReadReceipt},
	}
	url := startWSServer(t, frames)
	m := NewConnManager(url, time.Second, testLogger())
	defer m.Disconnect()

	require.Equal(t, StateConnected, m.Connect(context.Background(), 10))

	var got []session.Frame
	timeout := time.After(2 * time.Second)
	for len(got) < len(frames) {
		select {
		case f := <-m.Events():
			got = append(got, f)
		case <-timeout:
			t.Fatalf("only %d of %d frames arrived", len(got), len(frames))
		}
	}

	assert.Equal(t, session.FrameChat, got[0].Type)
	assert.Equal(t, "hi", got[0].Content)
	assert.Equal(t, session.FrameTyping, got[1].Type)
	assert.Equal(t, session.FrameReadReceipt, got[2].Type)
}

func TestConnManager_TransportDropDisconnects(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Drop the connection immediately after the handshake.
		ws.Close()
	}))
	defer srv.Close()

	m := NewConnManager("ws"+strings.TrimPrefix(srv.URL, "http"), time.Second, testLogger())
	require.Equal(t, StateConnected, m.Connect(context.Background(), 10))

	assert.Eventually(t, func() bool {
		return m.State() == StateDisconnected
	}, 2*time.Second, 20*time.Millisecond, "transport error must settle into DISCONNECTED")
}
