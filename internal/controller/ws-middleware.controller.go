package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/pkg/ctxlogger"
	"github.com/sharetube/multisync/pkg/wsrouter"
)

func (c *controller) wsRequestIdWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			return next(ctx, conn, payload)
		}
	}
}

func (c *controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

			start := time.Now()
			err := next(ctx, conn, payload)

			c.logger.DebugContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
				"error", err,
			)

			return err
		}
	}
}

// playerErrorHandler keeps the player conn open. Only the engine writes to
// player clients.
func (c *controller) playerErrorHandler(ctx context.Context, _ *websocket.Conn, err error) error {
	c.logger.InfoContext(ctx, "player message failed", "error", err)
	return nil
}

func (c *controller) controlErrorHandler(ctx context.Context, conn *websocket.Conn, err error) error {
	c.logger.InfoContext(ctx, "control message failed", "control_id", c.getControlIDFromCtx(ctx), "error", err)

	if werr := c.sendToControl(ctx, conn, &Output{
		Type:    "ERROR",
		Payload: map[string]any{"message": err.Error()},
	}); werr != nil {
		return errors.Join(err, werr)
	}

	return nil
}
