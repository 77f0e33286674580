package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandler is called when a handler returns an error. Returning a non-nil
// error from it stops ServeConn.
type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error) error

type route struct {
	decode func(json.RawMessage) (any, error)
	handle HandlerFunc[any]
}

type WSRouter struct {
	routes       map[string]route
	middlewares  []Middleware
	errorHandler ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]route),
		errorHandler: func(_ context.Context, _ *websocket.Conn, _ error) error {
			return nil
		},
	}
}

// Handle registers handler for messageType. The payload is decoded into T before
// the handler runs; a missing payload leaves T zeroed.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = route{
		decode: func(raw json.RawMessage) (any, error) {
			var payload T
			if len(raw) == 0 || string(raw) == "null" {
				return payload, nil
			}

			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode %s payload: %w", messageType, err)
			}

			return payload, nil
		},
		handle: func(ctx context.Context, conn *websocket.Conn, payload any) error {
			return handler(ctx, conn, payload.(T))
		},
	}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *WSRouter) OnError(h ErrorHandler) {
	r.errorHandler = h
}

// Dispatch routes a single raw message.
func (r *WSRouter) Dispatch(ctx context.Context, conn *websocket.Conn, data []byte) error {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}

	rt, ok := r.routes[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	payload, err := rt.decode(msg.Payload)
	if err != nil {
		return err
	}

	h := rt.handle
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}

	return h(context.WithValue(ctx, messageTypeKey, msg.Type), conn, payload)
}

// ServeConn reads messages until the connection fails or the error handler gives up.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if err := r.Dispatch(ctx, conn, data); err != nil {
			if err := r.errorHandler(ctx, conn, err); err != nil {
				return err
			}
		}
	}
}
