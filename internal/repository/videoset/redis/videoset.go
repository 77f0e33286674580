package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/repository/videoset"
)

func (r repo) getIndexKey() string {
	return "video-sets"
}

func (r repo) getVideosKey(name string) string {
	return "video-set:" + name + ":videos"
}

// Save replaces the videos of the named set. A new set is appended to the
// index; an existing one keeps its position.
func (r repo) Save(ctx context.Context, set domain.VideoSet) error {
	pipe := r.rc.TxPipeline()

	videosKey := r.getVideosKey(set.Name)
	pipe.Del(ctx, videosKey)
	pipe.RPush(ctx, videosKey, toAny(set.VideoIDs)...)
	pipe.ZAddNX(ctx, r.getIndexKey(), redis.Z{
		Score:  float64(r.now().UnixNano()),
		Member: set.Name,
	})

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to save video set: %w", err)
	}

	return nil
}

func (r repo) Get(ctx context.Context, name string) (domain.VideoSet, error) {
	videoIDs, err := r.rc.LRange(ctx, r.getVideosKey(name), 0, -1).Result()
	if err != nil {
		return domain.VideoSet{}, fmt.Errorf("failed to get video set: %w", err)
	}

	if len(videoIDs) == 0 {
		return domain.VideoSet{}, videoset.ErrVideoSetNotFound
	}

	return domain.VideoSet{Name: name, VideoIDs: videoIDs}, nil
}

func (r repo) List(ctx context.Context) ([]domain.VideoSet, error) {
	names, err := r.rc.ZRange(ctx, r.getIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list video sets: %w", err)
	}

	if len(names) == 0 {
		return []domain.VideoSet{}, nil
	}

	pipe := r.rc.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.LRange(ctx, r.getVideosKey(name), 0, -1)
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return nil, fmt.Errorf("failed to list video sets: %w", err)
	}

	sets := make([]domain.VideoSet, 0, len(names))
	for i, name := range names {
		videoIDs := cmds[i].Val()
		if len(videoIDs) == 0 {
			continue
		}
		sets = append(sets, domain.VideoSet{Name: name, VideoIDs: videoIDs})
	}

	return sets, nil
}

func (r repo) Delete(ctx context.Context, name string) error {
	pipe := r.rc.TxPipeline()

	pipe.Del(ctx, r.getVideosKey(name))
	zremCmd := pipe.ZRem(ctx, r.getIndexKey(), name)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to delete video set: %w", err)
	}

	if zremCmd.Val() == 0 {
		return videoset.ErrVideoSetNotFound
	}

	return nil
}

func toAny(ids []string) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	return values
}
