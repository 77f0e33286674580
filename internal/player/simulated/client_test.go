package simulated

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

func TestClientObeysCommands(t *testing.T) {
	received := make(chan map[string]any, 64)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, cmd := range []map[string]any{
			{"type": "CUE", "payload": map[string]any{"video_id": "abc"}},
			{"type": "SEEK", "payload": map[string]any{"seconds": 12.5}},
			{"type": "MUTE"},
		} {
			if err := conn.WriteJSON(cmd); err != nil {
				return
			}
		}

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(ctx, url, Options{Duration: 60}, 20*time.Millisecond, logger)
	require.NoError(t, err)

	go c.Run(ctx)

	var sawCued, sawPosition bool
	timeout := time.After(3 * time.Second)
	for !sawCued || !sawPosition {
		select {
		case msg := <-received:
			switch msg["type"] {
			case "STATE_CHANGE":
				if msg["payload"].(map[string]any)["state"] == float64(5) {
					sawCued = true
				}
			case "POSITION":
				payload := msg["payload"].(map[string]any)
				if payload["current_time"] == 12.5 && payload["is_muted"] == true {
					sawPosition = true
				}
			}
		case <-timeout:
			t.Fatal("client did not report back")
		}
	}

	assert.Equal(t, "abc", c.Player().VideoID())
}
