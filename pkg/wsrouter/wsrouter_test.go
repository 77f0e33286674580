package wsrouter

import (
	"context"
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekInput struct {
	Seconds float64 `json:"seconds"`
}

func TestDispatch(t *testing.T) {
	r := New()

	var got seekInput
	var gotType string
	Handle(r, "SEEK", func(ctx context.Context, _ *websocket.Conn, input seekInput) error {
		got = input
		gotType = GetMessageTypeFromCtx(ctx)
		return nil
	})

	err := r.Dispatch(context.Background(), nil, []byte(`{"type":"SEEK","payload":{"seconds":12.5}}`))
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Seconds)
	assert.Equal(t, "SEEK", gotType)
}

func TestDispatchEmptyPayload(t *testing.T) {
	r := New()

	called := false
	Handle(r, "PLAY", func(_ context.Context, _ *websocket.Conn, _ struct{}) error {
		called = true
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), nil, []byte(`{"type":"PLAY"}`)))
	assert.True(t, called)
}

func TestDispatchUnknownType(t *testing.T) {
	r := New()

	err := r.Dispatch(context.Background(), nil, []byte(`{"type":"NOPE"}`))
	assert.True(t, errors.Is(err, ErrUnknownMessageType))
}

func TestDispatchBadPayload(t *testing.T) {
	r := New()
	Handle(r, "SEEK", func(_ context.Context, _ *websocket.Conn, _ seekInput) error {
		t.Fatal("handler must not run")
		return nil
	})

	err := r.Dispatch(context.Background(), nil, []byte(`{"type":"SEEK","payload":{"seconds":"x"}}`))
	assert.Error(t, err)
}

func TestMiddlewareOrder(t *testing.T) {
	r := New()

	var order []string
	mw := func(name string) Middleware {
		return func(next HandlerFunc[any]) HandlerFunc[any] {
			return func(ctx context.Context, conn *websocket.Conn, payload any) error {
				order = append(order, name)
				return next(ctx, conn, payload)
			}
		}
	}
	r.Use(mw("first"), mw("second"))
	Handle(r, "ALIVE", func(_ context.Context, _ *websocket.Conn, _ struct{}) error {
		order = append(order, "handler")
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), nil, []byte(`{"type":"ALIVE"}`)))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
