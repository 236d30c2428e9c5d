package ws

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startHub serves /?user=<id> as an authenticated websocket endpoint
func startHub(t *testing.T, hooks Hooks) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, zerolog.New(io.Discard))
	hub.SetHooks(hooks)
	go hub.Run()
	t.Cleanup(hub.Stop)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("user"))
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubNotifyReachesOnlyTarget(t *testing.T) {
	hub, srv := startHub(t, Hooks{})
	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")

	require.Eventually(t, func() bool {
		return hub.Connected("alice") && hub.Connected("bob")
	}, time.Second, 10*time.Millisecond)

	hub.Notify("bob", domain.EventMessage, map[string]string{"content": "hi bob"})

	bob.SetReadDeadline(time.Now().Add(time.Second)) //nolint:errcheck
	_, data, err := bob.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, domain.EventMessage, ev.Type)
	assert.Equal(t, "hi bob", ev.Payload["content"])

	alice.SetReadDeadline(time.Now().Add(100 * time.Millisecond)) //nolint:errcheck
	_, _, err = alice.ReadMessage()
	assert.Error(t, err, "alice must not receive bob's event")
}

func TestHubFramesAndDisconnect(t *testing.T) {
	var mu sync.Mutex
	var frames []Frame
	disconnected := make(chan string, 1)

	hub, srv := startHub(t, Hooks{
		OnFrame: func(userID string, f Frame) {
			mu.Lock()
			frames = append(frames, f)
			mu.Unlock()
		},
		OnDisconnect: func(userID string, last bool) {
			if last {
				disconnected <- userID
			}
		},
	})
	conn := dial(t, srv, "bob")
	require.Eventually(t, func() bool { return hub.Connected("bob") }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"typing","to":"alice"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) == 1
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Equal(t, Frame{Type: "typing", To: "alice"}, frames[0])
	mu.Unlock()

	conn.Close()
	select {
	case id := <-disconnected:
		assert.Equal(t, "bob", id)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect hook not called")
	}
	assert.False(t, hub.Connected("bob"))
}

func TestHubDropsSlowConsumer(t *testing.T) {
	type disconnect struct {
		userID string
		last   bool
	}
	disconnected := make(chan disconnect, 1)
	hub := NewHub(nil, zerolog.New(io.Discard))
	hub.SetHooks(Hooks{
		OnDisconnect: func(userID string, last bool) { disconnected <- disconnect{userID, last} },
	})
	go hub.Run()
	t.Cleanup(hub.Stop)

	// no write pump drains an unbuffered send channel
	stuck := &Client{hub: hub, userID: "carol", send: make(chan []byte)}
	hub.Register(stuck)
	require.Eventually(t, func() bool { return hub.Connected("carol") }, time.Second, 10*time.Millisecond)

	hub.Notify("carol", domain.EventMessage, map[string]string{"content": "hello?"})

	select {
	case d := <-disconnected:
		assert.Equal(t, disconnect{"carol", true}, d)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect hook not called for dropped client")
	}
	assert.False(t, hub.Connected("carol"))

	_, open := <-stuck.send
	assert.False(t, open, "send channel closed")
}
