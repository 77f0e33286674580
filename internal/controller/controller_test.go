package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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

	"github.com/sharetube/multisync/internal/engine"
	"github.com/sharetube/multisync/internal/metrics"
	"github.com/sharetube/multisync/internal/repository/connection/inmemory"
	videosetRedis "github.com/sharetube/multisync/internal/repository/videoset/redis"
	"github.com/sharetube/multisync/internal/service/session"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		videoURL := r.URL.Query().Get("url")
		id := videoURL[strings.LastIndex(videoURL, "=")+1:]
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"title":"title %s","author_name":"someone","thumbnail_url":"http://img/%s"}`, id, id)
	}))
	t.Cleanup(oembed.Close)

	yt := ytvideodata.New()
	yt.OEmbedURL = oembed.URL

	loop := engine.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	connRepo := inmemory.NewRepo(logger)
	m := metrics.New()
	svc, err := session.NewService(&session.Config{Engine: engine.DefaultConfig()}, loop, connRepo, videosetRedis.NewRepo(rc), yt, m, logger)
	require.NoError(t, err)

	c := NewController(svc, connRepo, m, logger)
	svc.SetNotifier(c)

	srv := httptest.NewServer(c.GetMux())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return srv
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Errors []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func doJSON(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}

	return resp.StatusCode, env
}

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": messageType, "payload": payload}))
}

// readUntil skips messages until one of messageType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, messageType string) message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg message
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", messageType)
		if msg.Type == messageType {
			return msg
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestGetState(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/state", "")
	require.Equal(t, http.StatusOK, status)

	var state struct {
		Phase       string `json:"phase"`
		StreamCount int    `json:"stream_count"`
		IsPlaying   bool   `json:"is_playing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "loading", state.Phase)
	assert.Equal(t, 3, state.StreamCount)
	assert.False(t, state.IsPlaying)
}

func TestVideoSetEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/video-sets"

	status, _ := doJSON(t, http.MethodPut, base+"/wiffle", `{"video_ids":["a","b","c"]}`)
	require.Equal(t, http.StatusOK, status)

	status, env := doJSON(t, http.MethodPut, base+"/short", `{"video_ids":["a","b"]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Error)

	status, _ = doJSON(t, http.MethodPut, base+"/x", `{"video_ids":`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = doJSON(t, http.MethodPut, base+"/x", `{"video_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "video_ids", env.Errors[0].Field)

	status, env = doJSON(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"name":"wiffle","video_ids":["a","b","c"]}]`, string(env.Data))

	status, env = doJSON(t, http.MethodGet, base+"/wiffle/details", "")
	require.Equal(t, http.StatusOK, status)
	var details session.VideoSetDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	require.Len(t, details.Videos, 3)
	assert.Equal(t, "title b", details.Videos[1].Title)
	assert.Equal(t, "b", details.Videos[1].VideoID)

	status, _ = doJSON(t, http.MethodGet, base+"/nope", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, http.MethodDelete, base+"/wiffle", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, http.MethodDelete, base+"/wiffle", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRESTValidation(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	status, _ := doJSON(t, http.MethodPost, base+"/seek", `{"seconds":-1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodPost, base+"/seek", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodPost, base+"/cue", `{"video_ids":["a"]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodPost, base+"/streams/abc/mute", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodPost, base+"/streams/3/toggle-mute", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodPost, base+"/streams/1/mute", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlayerRejectsBadStreamID(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"abc", "-1", "3"} {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/player/" + id
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err, id)
		require.NotNil(t, resp, id)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
	}
}

func TestPlaybackOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	players := make([]*websocket.Conn, 3)
	for i := range players {
		players[i] = dial(t, srv, fmt.Sprintf("/api/v1/ws/player/%d", i))
	}

	control := dial(t, srv, "/api/v1/ws/control")
	readUntil(t, control, session.EventState)

	for i, p := range players {
		send(t, p, "POSITION", map[string]any{"current_time": 0, "duration": 100 + i, "is_muted": false})
		send(t, p, "STATE_CHANGE", map[string]any{"state": 2})
	}

	msg := readUntil(t, control, session.EventAllInitialized)
	assert.JSONEq(t, `{"duration":102}`, string(msg.Payload))

	status, _ := doJSON(t, http.MethodPost, base+"/play", "")
	require.Equal(t, http.StatusOK, status)
	for _, p := range players {
		readUntil(t, p, "PLAY")
	}

	for i, p := range players {
		send(t, p, "POSITION", map[string]any{"current_time": []float64{10, 10.03, 10.2}[i], "duration": 100, "is_muted": false})
	}
	// positions are applied in message order, so a round trip on the last
	// player makes sure all reports have landed
	send(t, players[2], "ALIVE", nil)
	require.Eventually(t, func() bool {
		status, env := doJSON(t, http.MethodGet, base+"/state", "")
		if status != http.StatusOK {
			return false
		}
		var state struct {
			Streams []struct {
				Position float64 `json:"position"`
			} `json:"streams"`
		}
		if err := json.Unmarshal(env.Data, &state); err != nil || len(state.Streams) != 3 {
			return false
		}
		return state.Streams[2].Position >= 10.2
	}, 3*time.Second, 20*time.Millisecond)

	status, env := doJSON(t, http.MethodPost, base+"/sync", "")
	require.Equal(t, http.StatusOK, status)
	var syncResp struct {
		Started bool `json:"started"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &syncResp))
	assert.True(t, syncResp.Started)

	seek := readUntil(t, players[2], "SEEK")
	var seekPayload struct {
		Seconds float64 `json:"seconds"`
	}
	require.NoError(t, json.Unmarshal(seek.Payload, &seekPayload))
	assert.InDelta(t, 10.0, seekPayload.Seconds, 0.2)

	readUntil(t, control, session.EventSyncStatusUpdated)

	send(t, control, "PAUSE", nil)
	for _, p := range players {
		readUntil(t, p, "PAUSE")
	}
}

func TestControlMessages(t *testing.T) {
	srv := newTestServer(t)

	player := dial(t, srv, "/api/v1/ws/player/0")
	control := dial(t, srv, "/api/v1/ws/control")
	readUntil(t, control, session.EventState)

	send(t, control, "SET_TIME", map[string]any{"seconds": -5})
	readUntil(t, control, "ERROR")

	send(t, control, "NOT_A_THING", nil)
	readUntil(t, control, "ERROR")

	send(t, control, "TOGGLE_MUTE", map[string]any{"stream_id": 0})
	msg := readUntil(t, control, session.EventMuteUpdated)
	assert.JSONEq(t, `{"stream_id":0,"is_muted":true}`, string(msg.Payload))
	readUntil(t, player, "MUTE")

	send(t, control, "CUE_VIDEOS", map[string]any{"video_ids": []string{"a", "b", "c"}})
	cue := readUntil(t, player, "CUE")
	assert.JSONEq(t, `{"video_id":"a"}`, string(cue.Payload))
	readUntil(t, player, "SEEK")

	send(t, control, "CUE_VIDEO_SET", map[string]any{"name": "missing"})
	readUntil(t, control, "ERROR")

	send(t, player, "STATE_CHANGE", map[string]any{"state": 1})
	anomaly := readUntil(t, control, session.EventAnomalousPlay)
	assert.JSONEq(t, `{"stream_id":0}`, string(anomaly.Payload))
	readUntil(t, player, "PAUSE")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, http.MethodGet, srv.URL+"/api/v1/state", "")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "multisync_requests_total 1")
}
