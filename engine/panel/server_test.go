package panel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func controlValue(msg Message, id string) any {
	if msg.State == nil {
		return nil
	}
	for _, c := range msg.State.Controls {
		if c.ID == id {
			return c.Value
		}
	}
	return nil
}

func TestServerStreamsStateAndAppliesEdits(t *testing.T) {
	g := NewGUI(WithTitle("Plane"))
	p := &params{}
	speed := g.Add(p, "Speed").Range(0, 10)
	pressed := 0
	button := g.AddButton("hello", func() { pressed++ })
	require.NoError(t, g.Flush())

	ts := httptest.NewServer(NewServer(g, WithRefreshInterval(5*time.Millisecond)).Handler())
	defer ts.Close()
	conn := dial(t, ts)

	first := readUntil(t, conn, func(m Message) bool { return m.Type == "state" })
	require.NotNil(t, first.State)
	assert.Equal(t, "Plane", first.State.Title)
	require.Len(t, first.State.Controls, 2)

	require.NoError(t, conn.WriteJSON(Message{Type: "set", ID: speed.ID(), Value: 4}))
	require.Eventually(t, func() bool {
		require.NoError(t, g.Flush())
		return p.Speed == 4
	}, 5*time.Second, 5*time.Millisecond)

	updated := readUntil(t, conn, func(m Message) bool { return controlValue(m, speed.ID()) == 4.0 })
	assert.Equal(t, "state", updated.Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "invoke", ID: button.ID()}))
	require.Eventually(t, func() bool {
		require.NoError(t, g.Flush())
		return pressed == 1
	}, 5*time.Second, 5*time.Millisecond)
}

func TestServerRepliesWithErrors(t *testing.T) {
	g := NewGUI()
	p := &params{}
	speed := g.Add(p, "Speed")

	ts := httptest.NewServer(NewServer(g).Handler())
	defer ts.Close()
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(Message{Type: "set", ID: "999", Value: 1}))
	reply := readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Equal(t, "999", reply.ID)
	assert.Contains(t, reply.Error, ErrUnknownControl.Error())

	require.NoError(t, conn.WriteJSON(Message{Type: "invoke", ID: speed.ID()}))
	reply = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Contains(t, reply.Error, ErrInvalidValue.Error())

	require.NoError(t, conn.WriteJSON(Message{Type: "shout"}))
	reply = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Contains(t, reply.Error, "shout")
}

func TestServerPages(t *testing.T) {
	g := NewGUI(WithTitle("Camera"))
	require.NoError(t, g.Flush())
	ts := httptest.NewServer(NewServer(g).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/ws")

	resp, err = http.Get(ts.URL + "/state")
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	assert.Equal(t, "Camera", snap.Title)

	resp, err = http.Get(ts.URL + "/favicon.ico")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	g := NewGUI()
	srv := NewServer(g, WithAddr("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != "127.0.0.1:0" }, 5*time.Second, 5*time.Millisecond)
	resp, err := http.Get("http://" + srv.Addr() + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRejectsClientsAfterShutdownStarts(t *testing.T) {
	g := NewGUI()
	srv := NewServer(g)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	open := dial(t, ts)
	readUntil(t, open, func(m Message) bool { return m.Type == "state" })

	srv.closeConns()

	require.NoError(t, open.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := open.ReadMessage()
	assert.Error(t, err, "open clients are closed")

	late := dial(t, ts)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = late.ReadMessage()
	assert.Error(t, err, "late clients never receive state")

	assert.Eventually(t, func() bool {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		return len(srv.conns) == 0
	}, 5*time.Second, 5*time.Millisecond)
}
