package controller

import "context"

type contextKey int

const (
	streamIDCtxKey contextKey = iota
	controlIDCtxKey
)

func (c *controller) getStreamIDFromCtx(ctx context.Context) int {
	streamID, ok := ctx.Value(streamIDCtxKey).(int)
	if !ok {
		return -1
	}

	return streamID
}

func (c *controller) getControlIDFromCtx(ctx context.Context) string {
	controlID, ok := ctx.Value(controlIDCtxKey).(string)
	if !ok {
		return ""
	}

	return controlID
}
