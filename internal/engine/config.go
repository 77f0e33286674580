package engine

import (
	"fmt"
	"time"

	"github.com/sharetube/multisync/pkg/validator"
)

const (
	DefaultAllowedDiff       = 50 * time.Millisecond
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultSyncRetryInterval = 167 * time.Millisecond
	DefaultStreamCount       = 3
)

type Config struct {
	// AllowedDiff is the drift tolerance between a stream and the sync target.
	AllowedDiff       time.Duration `json:"allowed_diff" validate:"gt=0"`
	PollInterval      time.Duration `json:"poll_interval" validate:"gt=0"`
	SyncRetryInterval time.Duration `json:"sync_retry_interval" validate:"gt=0"`
	StreamCount       int           `json:"stream_count" validate:"gte=1"`
	// AutoMute lets the engine mute and unmute streams on its own.
	AutoMute        bool     `json:"auto_mute"`
	InitialVideoIDs []string `json:"initial_video_ids" validate:"omitempty,dive,required"`
}

func DefaultConfig() Config {
	return Config{
		AllowedDiff:       DefaultAllowedDiff,
		PollInterval:      DefaultPollInterval,
		SyncRetryInterval: DefaultSyncRetryInterval,
		StreamCount:       DefaultStreamCount,
	}
}

func (cfg *Config) Validate() error {
	if err := validator.NewValidator().Err(cfg); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	if len(cfg.InitialVideoIDs) > 0 && len(cfg.InitialVideoIDs) != cfg.StreamCount {
		return fmt.Errorf("invalid engine config: %w", ErrVideoCountMismatch)
	}

	return nil
}
