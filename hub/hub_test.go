package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"skilllink/backend/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var tokens = map[string]int64{"tok-1": 1, "tok-2": 2}

func testAuth(token string) (int64, error) {
	if id, ok := tokens[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type fixture struct {
	hub    *Hub
	broker *events.LocalBroker
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	broker := events.NewLocalBroker()
	h := New(zap.NewNop(), broker, testAuth)
	require.NoError(t, h.Start())
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return &fixture{hub: h, broker: broker, srv: srv}
}

func (f *fixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	got := readFrame(t, conn)
	require.Equal(t, events.TypeConnected, got.Type)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func assertSilent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, data, err := conn.ReadMessage()
	assert.Error(t, err, "unexpected frame %s", data)
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, time.Second, 10*time.Millisecond)
}

func TestHub_TargetedEvent(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	bob := f.dial(t, "tok-2")
	anon := f.dial(t, "")
	waitForClients(t, f.hub, 3)

	e, err := events.New(events.TypeNewMessage, map[string]int64{"id": 7}, 1)
	require.NoError(t, err)
	require.NoError(t, f.broker.Publish(context.Background(), e))

	got := readFrame(t, alice)
	assert.Equal(t, events.TypeNewMessage, got.Type)
	assert.JSONEq(t, `{"id":7}`, string(got.Payload))

	assertSilent(t, bob)
	assertSilent(t, anon)
}

func TestHub_BroadcastReachesAnonymousClients(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	anon := f.dial(t, "")
	waitForClients(t, f.hub, 2)

	require.NoError(t, f.broker.Publish(context.Background(), events.Event{Type: events.TypeServiceApproved}))

	assert.Equal(t, events.TypeServiceApproved, readFrame(t, alice).Type)
	assert.Equal(t, events.TypeServiceApproved, readFrame(t, anon).Type)
}

func TestHub_RelaysClientFrames(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	bob := f.dial(t, "tok-2")
	waitForClients(t, f.hub, 2)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(`{"type":"new_message","receiverId":2}`)))

	got := readFrame(t, bob)
	assert.Equal(t, events.TypeRelay, got.Type, "client frames never carry server event types")
	assert.Equal(t, int64(1), got.SenderID)
	assert.JSONEq(t, `{"type":"new_message","receiverId":2}`, string(got.Payload))

	assertSilent(t, alice)
}

func TestHub_AnonymousFramesAreNotRelayed(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	anon := f.dial(t, "")
	waitForClients(t, f.hub, 2)

	require.NoError(t, anon.WriteMessage(websocket.TextMessage, []byte(`{"type":"new_message"}`)))
	assertSilent(t, alice)
}

func TestHub_RejectsInvalidToken(t *testing.T) {
	f := newFixture(t)
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "?token=bogus"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	waitForClients(t, f.hub, 1)

	require.NoError(t, alice.Close())
	waitForClients(t, f.hub, 0)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	waitForClients(t, f.hub, 1)

	f.hub.Close()
	assert.Equal(t, 0, f.hub.ClientCount())

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := alice.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DropsClientWithFullQueue(t *testing.T) {
	h := New(zap.NewNop(), events.NewLocalBroker(), testAuth)
	slow := &client{id: "slow", userID: 1, send: make(chan []byte, 2)}
	fast := &client{id: "fast", userID: 2, send: make(chan []byte, 8)}
	h.mu.Lock()
	h.clients[slow] = struct{}{}
	h.clients[fast] = struct{}{}
	h.mu.Unlock()

	for i := 0; i < 3; i++ {
		h.Deliver(context.Background(), events.Event{Type: events.TypeServiceApproved})
	}

	assert.Equal(t, 1, h.ClientCount())
	assert.Len(t, fast.send, 3)

	queued := 0
	for range slow.send {
		queued++
	}
	assert.Equal(t, 2, queued, "queue is closed after the frames that fit")

	h.Deliver(context.Background(), events.Event{Type: events.TypeServiceApproved})
	assert.Len(t, fast.send, 4)
}

func TestHub_DroppedClientReceivesCloseFrame(t *testing.T) {
	f := newFixture(t)
	alice := f.dial(t, "tok-1")
	bob := f.dial(t, "tok-2")
	waitForClients(t, f.hub, 2)

	var dropped *client
	f.hub.mu.RLock()
	for c := range f.hub.clients {
		if c.userID == 1 {
			dropped = c
		}
	}
	f.hub.mu.RUnlock()
	require.NotNil(t, dropped)

	f.hub.remove(dropped)
	waitForClients(t, f.hub, 1)

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := alice.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)

	require.NoError(t, f.broker.Publish(context.Background(), events.Event{Type: events.TypeServiceApproved}))
	assert.Equal(t, events.TypeServiceApproved, readFrame(t, bob).Type)
}
