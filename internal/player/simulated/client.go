package simulated

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/domain"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type cuePayload struct {
	VideoID string `json:"video_id"`
}

type seekPayload struct {
	Seconds float64 `json:"seconds"`
}

// Client drives a simulated Player from a player WebSocket connection: it obeys
// the commands of the server and reports state changes and positions back.
type Client struct {
	conn           *websocket.Conn
	player         *Player
	reportInterval time.Duration
	logger         *slog.Logger
	writeMu        sync.Mutex
}

func Dial(ctx context.Context, url string, opts Options, reportInterval time.Duration, logger *slog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	return newClient(conn, opts, reportInterval, logger), nil
}

func newClient(conn *websocket.Conn, opts Options, reportInterval time.Duration, logger *slog.Logger) *Client {
	c := &Client{
		conn:           conn,
		reportInterval: reportInterval,
		logger:         logger,
	}

	opts.OnStateChange = c.sendState
	c.player = New(time.Now, opts)

	return c
}

func (c *Client) Player() *Player {
	return c.player
}

// Run serves the connection until it breaks or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()
	go c.reportLoop(ctx)

	for {
		var msg message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		if err := c.handle(msg); err != nil {
			c.logger.Warn("failed to handle command", "type", msg.Type, "error", err)
		}
	}
}

func (c *Client) handle(msg message) error {
	c.logger.Debug("command received", "type", msg.Type)

	switch msg.Type {
	case "CUE":
		var p cuePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		c.player.Cue(p.VideoID)
	case "PLAY":
		c.player.Play()
	case "PAUSE":
		c.player.Pause()
	case "SEEK":
		var p seekPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		c.player.Seek(p.Seconds)
	case "MUTE":
		c.player.Mute()
	case "UNMUTE":
		c.player.Unmute()
	default:
		return fmt.Errorf("unknown command %q", msg.Type)
	}

	return nil
}

func (c *Client) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(c.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			duration, _ := c.player.Duration()
			c.write(&output{Type: "POSITION", Payload: map[string]any{
				"current_time": c.player.Position(),
				"duration":     duration,
				"is_muted":     c.player.IsMuted(),
			}})
		}
	}
}

func (c *Client) sendState(state domain.PlaybackState) {
	c.write(&output{Type: "STATE_CHANGE", Payload: map[string]any{"state": int(state)}})
}

func (c *Client) write(out *output) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(out); err != nil {
		c.logger.Debug("failed to write", "type", out.Type, "error", err)
	}
}
