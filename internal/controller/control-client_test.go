package controller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticControlRepo struct {
	conns []*websocket.Conn
}

func (r *staticControlRepo) ControlConns() []*websocket.Conn {
	return r.conns
}

// connPair returns the server and client ends of one websocket connection.
func connPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	server := <-serverConns
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestBroadcastSkipsStalledControlClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stalledServer, stalledClient := connPair(t)
	liveServer, liveClient := connPair(t)

	repo := &staticControlRepo{conns: []*websocket.Conn{stalledServer, liveServer}}
	c := NewController(nil, repo, nil, logger)

	stalled := newControlClient(stalledServer)
	c.addControlClient(stalled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	live := newControlClient(liveServer)
	c.addControlClient(live)
	go c.writePump(ctx, live)
	defer live.close()

	received := make(chan string, controlSendBuffer+1)
	go func() {
		for {
			var msg message
			if err := liveClient.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg.Type
		}
	}()

	start := time.Now()
	for range controlSendBuffer {
		c.Broadcast(ctx, "TIME_UPDATED", map[string]any{"current_time": 1})
	}
	require.Eventually(t, func() bool { return len(live.send) == 0 }, 3*time.Second, 10*time.Millisecond)
	c.Broadcast(ctx, "TIME_UPDATED", map[string]any{"current_time": 1})
	assert.Less(t, time.Since(start), 3*time.Second)

	assert.Len(t, stalled.send, controlSendBuffer)
	select {
	case <-stalled.done:
	default:
		t.Fatal("stalled client was not dropped")
	}

	require.NoError(t, stalledClient.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := stalledClient.ReadMessage()
	assert.Error(t, err, "dropped conn is closed")

	for range controlSendBuffer + 1 {
		select {
		case msgType := <-received:
			assert.Equal(t, "TIME_UPDATED", msgType)
		case <-time.After(3 * time.Second):
			t.Fatal("live client missed a broadcast")
		}
	}
}

func TestSendToUnknownControlConn(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, _ := connPair(t)
	c := NewController(nil, &staticControlRepo{}, nil, logger)

	err := c.sendToControl(context.Background(), server, &Output{Type: "STATE"})
	assert.ErrorIs(t, err, ErrControlClientClosed)
}
