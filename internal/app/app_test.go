package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Host:              "0.0.0.0",
		Port:              8080,
		LogLevel:          "info",
		RedisHost:         "localhost",
		RedisPort:         6379,
		StreamCount:       3,
		AllowedDiff:       50 * time.Millisecond,
		PollInterval:      100 * time.Millisecond,
		SyncRetryInterval: 167 * time.Millisecond,
	}
}

func TestAppConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero streams", func(c *AppConfig) { c.StreamCount = 0 }},
		{"bad port", func(c *AppConfig) { c.Port = 70000 }},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"zero tolerance", func(c *AppConfig) { c.AllowedDiff = 0 }},
		{"zero poll interval", func(c *AppConfig) { c.PollInterval = 0 }},
		{"video count mismatch", func(c *AppConfig) { c.InitialVideoIDs = []string{"a", "b"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestServerWiring(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rc.Close()

	cfg := validConfig()
	cfg.InitialVideoIDs = []string{"a", "b", "c"}

	server, loop, err := newServer(cfg, rc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	srv := httptest.NewServer(server.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a player connecting while the initial videos are known gets cued at once
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/player/1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "CUE", msg.Type)
	assert.Equal(t, "b", msg.Payload["video_id"])
}
