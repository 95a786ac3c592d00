package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, allowedOrigin string) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	hub := NewHub(allowedOrigin, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r)
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastsToEveryClient(t *testing.T) {
	hub, srv, _ := startHub(t, "")
	a := dial(t, srv, nil)
	b := dial(t, srv, nil)
	waitForClients(t, hub, 2)

	hub.Emit(OrderUpdated, map[string]string{"_id": "65f1a2b3c4d5e6f7a8b9c0de"})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, OrderUpdated, msg.Event)
		assert.Equal(t, map[string]any{"_id": "65f1a2b3c4d5e6f7a8b9c0de"}, msg.Data)
	}
}

func TestHub_RebroadcastsInboundEvents(t *testing.T) {
	hub, srv, _ := startHub(t, "")
	sender := dial(t, srv, nil)
	listener := dial(t, srv, nil)
	waitForClients(t, hub, 2)

	require.NoError(t, sender.WriteJSON(Message{Event: "admin-message", Data: "restock soon"}))
	msg := readMessage(t, listener)
	assert.Equal(t, BroadcastMessage, msg.Event)
	assert.Equal(t, "restock soon", msg.Data)

	require.NoError(t, sender.WriteJSON(Message{Event: "order-created", Data: "x"}))
	assert.Equal(t, OrderUpdated, readMessage(t, listener).Event)
	assert.Equal(t, TrendUpdate, readMessage(t, listener).Event)

	require.NoError(t, sender.WriteJSON(Message{Event: "not-a-thing"}))
	require.NoError(t, sender.WriteJSON(Message{Event: "contact-created", Data: "c"}))
	assert.Equal(t, ContactUpdated, readMessage(t, listener).Event)
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, srv, _ := startHub(t, "")
	conn := dial(t, srv, nil)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_CheckOrigin(t *testing.T) {
	hub, srv, _ := startHub(t, "https://admin.craftcrazy.in/")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	dial(t, srv, http.Header{"Origin": {"https://ADMIN.craftcrazy.in"}})
	waitForClients(t, hub, 1)
}

func TestHub_StopsWithContext(t *testing.T) {
	hub, srv, cancel := startHub(t, "")
	conn := dial(t, srv, nil)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Emit after shutdown must not block.
	for i := 0; i < broadcastQueue+10; i++ {
		hub.Emit(TrendUpdate, nil)
	}
}

func TestMulti_SkipsNil(t *testing.T) {
	var got []string
	rec := notifierFunc(func(event string, _ any) { got = append(got, event) })

	Multi{nil, rec, Discard, rec}.Emit(Searching, nil)
	assert.Equal(t, []string{Searching, Searching}, got)
}

type notifierFunc func(event string, payload any)

func (f notifierFunc) Emit(event string, payload any) { f(event, payload) }
