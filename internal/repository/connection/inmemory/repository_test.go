package inmemory

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/multisync/internal/repository/connection"
)

func newTestRepo() *repo {
	return NewRepo(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPlayers(t *testing.T) {
	r := newTestRepo()
	c0, c2 := &websocket.Conn{}, &websocket.Conn{}

	require.NoError(t, r.AddPlayer(c2, 2))
	require.NoError(t, r.AddPlayer(c0, 0))

	assert.True(t, errors.Is(r.AddPlayer(&websocket.Conn{}, 2), connection.ErrAlreadyExists))
	assert.True(t, errors.Is(r.AddPlayer(c0, 1), connection.ErrAlreadyExists))

	streamID, err := r.RemovePlayer(c2)
	require.NoError(t, err)
	assert.Equal(t, 2, streamID)

	_, err = r.RemovePlayer(c2)
	assert.True(t, errors.Is(err, connection.ErrNotFound))

	require.NoError(t, r.AddPlayer(&websocket.Conn{}, 2), "stream can be taken again")
}

func TestControls(t *testing.T) {
	r := newTestRepo()
	a, b := &websocket.Conn{}, &websocket.Conn{}

	assert.Empty(t, r.ControlConns())

	require.NoError(t, r.AddControl(b, "b"))
	require.NoError(t, r.AddControl(a, "a"))
	assert.True(t, errors.Is(r.AddControl(a, "a"), connection.ErrAlreadyExists))

	conns := r.ControlConns()
	require.Len(t, conns, 2)
	assert.Same(t, a, conns[0])
	assert.Same(t, b, conns[1])

	require.NoError(t, r.RemoveControl("a"))
	assert.True(t, errors.Is(r.RemoveControl("a"), connection.ErrNotFound))
	assert.Len(t, r.ControlConns(), 1)
}
