package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sharetube/multisync/internal/service/session"
	"github.com/sharetube/multisync/pkg/ctxlogger"
	"github.com/sharetube/multisync/pkg/rest"
)

func (c *controller) connectPlayer(w http.ResponseWriter, r *http.Request) {
	streamID, err := c.getStreamIDParam(r)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to get stream id", "error", err)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	ctx := ctxlogger.AppendCtx(r.Context(), slog.Int("stream_id", streamID))

	if err := c.sessionService.ConnectPlayer(ctx, &session.ConnectPlayerParams{
		Conn:     conn,
		StreamID: streamID,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect player", "error", err)
		return
	}
	defer func() {
		// the request context is gone once the client hangs up
		if err := c.sessionService.DisconnectPlayer(context.WithoutCancel(ctx), conn); err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect player", "error", err)
		}
	}()

	c.logger.InfoContext(ctx, "player connected")

	ctx = context.WithValue(ctx, streamIDCtxKey, streamID)
	if err := c.playerMux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "player conn closed", "error", err)
	}
}

func (c *controller) connectControl(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	cl := newControlClient(conn)
	c.addControlClient(cl)
	defer func() {
		cl.close()
		c.removeControlClient(cl)
	}()

	controlID, err := c.sessionService.ConnectControl(r.Context(), conn)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect control", "error", err)
		return
	}

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("control_id", controlID))
	defer func() {
		if err := c.sessionService.DisconnectControl(context.WithoutCancel(ctx), controlID); err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect control", "error", err)
		}
	}()

	go c.writePump(ctx, cl)

	state, err := c.sessionService.State(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to get state", "error", err)
		return
	}

	if err := c.sendToControl(ctx, conn, &Output{Type: session.EventState, Payload: state}); err != nil {
		c.logger.WarnContext(ctx, "failed to send state", "error", err)
		return
	}

	ctx = context.WithValue(ctx, controlIDCtxKey, controlID)
	if err := c.controlMux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "control conn closed", "error", err)
	}
}
