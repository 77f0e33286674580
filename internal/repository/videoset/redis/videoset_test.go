package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/repository/videoset"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	r := NewRepo(rc)
	tick := time.Unix(0, 0)
	r.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	return r
}

func TestSaveAndGet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	set := domain.VideoSet{Name: "wiffle", VideoIDs: []string{"a1", "b2", "c3"}}
	require.NoError(t, r.Save(ctx, set))

	got, err := r.Get(ctx, "wiffle")
	require.NoError(t, err)
	assert.Equal(t, set, got)
}

func TestSaveOverwritesVideos(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, domain.VideoSet{Name: "x", VideoIDs: []string{"a", "b", "c"}}))
	require.NoError(t, r.Save(ctx, domain.VideoSet{Name: "x", VideoIDs: []string{"d", "e", "f"}}))

	got, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e", "f"}, got.VideoIDs)

	sets, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestGetMissing(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, videoset.ErrVideoSetNotFound))
}

func TestListKeepsInsertionOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	sets, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Save(ctx, domain.VideoSet{Name: name, VideoIDs: []string{name + "-1"}}))
	}
	require.NoError(t, r.Save(ctx, domain.VideoSet{Name: "zeta", VideoIDs: []string{"z"}}))

	sets, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "zeta", sets[0].Name)
	assert.Equal(t, []string{"z"}, sets[0].VideoIDs)
	assert.Equal(t, "alpha", sets[1].Name)
	assert.Equal(t, "mid", sets[2].Name)
}

func TestDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, domain.VideoSet{Name: "gone", VideoIDs: []string{"a"}}))
	require.NoError(t, r.Delete(ctx, "gone"))

	_, err := r.Get(ctx, "gone")
	assert.True(t, errors.Is(err, videoset.ErrVideoSetNotFound))

	err = r.Delete(ctx, "gone")
	assert.True(t, errors.Is(err, videoset.ErrVideoSetNotFound))
}
