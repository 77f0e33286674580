package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func (c *controller) generateTimeBasedId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

func (c *controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output.Type, err)
	}

	c.logger.DebugContext(ctx, "wrote to conn", "type", output.Type)
	return nil
}

// Broadcast queues an event for every control client and never blocks on
// the network. A client with a full queue is disconnected.
func (c *controller) Broadcast(ctx context.Context, eventType string, payload any) {
	output := &Output{Type: eventType, Payload: payload}
	for _, conn := range c.connRepo.ControlConns() {
		if err := c.sendToControl(ctx, conn, output); err != nil {
			c.logger.DebugContext(ctx, "failed to broadcast", "type", eventType, "error", err)
		}
	}
}

func (c *controller) getStreamIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "stream-id")
	streamID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid stream id %q", raw)
	}
	if streamID < 0 || streamID >= c.sessionService.StreamCount() {
		return 0, fmt.Errorf("stream id %d out of range [0, %d)", streamID, c.sessionService.StreamCount())
	}

	return streamID, nil
}
