package session

import (
	"context"
	"fmt"

	"github.com/sharetube/multisync/internal/domain"
)

func (s *service) State(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := s.do(ctx, func() error {
		snap = s.engine.Snapshot()
		return nil
	}); err != nil {
		return domain.Snapshot{}, err
	}

	return snap, nil
}

func (s *service) Play(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.engine.Play()
		s.broadcastState()
		return nil
	})
}

func (s *service) Pause(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.engine.Pause()
		s.broadcastState()
		return nil
	})
}

// Sync starts a sync session. Started is false when playback is stopped or a
// session is already running.
func (s *service) Sync(ctx context.Context) (SyncResponse, error) {
	var resp SyncResponse
	if err := s.do(ctx, func() error {
		resp.Started = s.engine.BeginSync()
		resp.State = s.engine.Snapshot()
		return nil
	}); err != nil {
		return SyncResponse{}, err
	}

	return resp, nil
}

func (s *service) CueVideos(ctx context.Context, videoIDs []string) error {
	return s.do(ctx, func() error {
		if err := s.engine.CueVideos(videoIDs); err != nil {
			return fmt.Errorf("failed to cue videos: %w", err)
		}

		s.broadcastState()
		return nil
	})
}

func (s *service) SetTime(ctx context.Context, seconds float64) error {
	return s.do(ctx, func() error {
		if err := s.engine.SetTargetTime(seconds); err != nil {
			return fmt.Errorf("failed to set time: %w", err)
		}

		s.broadcastState()
		return nil
	})
}

func (s *service) Mute(ctx context.Context, streamID int) error {
	return s.do(ctx, func() error {
		if err := s.engine.MuteStream(streamID); err != nil {
			return fmt.Errorf("failed to mute stream: %w", err)
		}
		return nil
	})
}

func (s *service) Unmute(ctx context.Context, streamID int) error {
	return s.do(ctx, func() error {
		if err := s.engine.UnmuteStream(streamID); err != nil {
			return fmt.Errorf("failed to unmute stream: %w", err)
		}
		return nil
	})
}

func (s *service) ToggleMute(ctx context.Context, streamID int) error {
	return s.do(ctx, func() error {
		if err := s.engine.ToggleMute(streamID); err != nil {
			return fmt.Errorf("failed to toggle mute: %w", err)
		}
		return nil
	})
}
