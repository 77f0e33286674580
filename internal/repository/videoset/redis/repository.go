package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc  *redis.Client
	now func() time.Time
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{
		rc:  rc,
		now: time.Now,
	}
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
