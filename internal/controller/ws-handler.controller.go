package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/service/session"
)

type EmptyInput struct{}

func (c *controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type StateChangeInput struct {
	State domain.PlaybackState `json:"state"`
}

func (c *controller) handleStateChange(ctx context.Context, _ *websocket.Conn, input StateChangeInput) error {
	if err := c.sessionService.ChangeState(ctx, &session.ChangeStateParams{
		StreamID: c.getStreamIDFromCtx(ctx),
		State:    input.State,
	}); err != nil {
		return fmt.Errorf("failed to change state: %w", err)
	}

	return nil
}

type PositionInput struct {
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	IsMuted     bool    `json:"is_muted"`
}

func (c *controller) handlePosition(ctx context.Context, _ *websocket.Conn, input PositionInput) error {
	if err := c.validate.Err(input); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationError, err)
	}

	if err := c.sessionService.ReportPosition(ctx, &session.ReportPositionParams{
		StreamID:    c.getStreamIDFromCtx(ctx),
		CurrentTime: input.CurrentTime,
		Duration:    input.Duration,
		IsMuted:     input.IsMuted,
	}); err != nil {
		return fmt.Errorf("failed to report position: %w", err)
	}

	return nil
}

func (c *controller) handlePlay(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.Play(ctx); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	return nil
}

func (c *controller) handlePause(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.Pause(ctx); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	return nil
}

func (c *controller) handleSync(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	resp, err := c.sessionService.Sync(ctx)
	if err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}

	c.Broadcast(ctx, session.EventState, resp.State)
	return nil
}

type SetTimeInput struct {
	Seconds *float64 `json:"seconds" validate:"required,gte=0"`
}

func (c *controller) handleSetTime(ctx context.Context, _ *websocket.Conn, input SetTimeInput) error {
	if err := c.validate.Err(input); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationError, err)
	}

	if err := c.sessionService.SetTime(ctx, *input.Seconds); err != nil {
		return fmt.Errorf("failed to set time: %w", err)
	}

	return nil
}

type CueVideosInput struct {
	VideoIDs []string `json:"video_ids" validate:"required,min=1,dive,required"`
}

func (c *controller) handleCueVideos(ctx context.Context, _ *websocket.Conn, input CueVideosInput) error {
	if err := c.validate.Err(input); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationError, err)
	}

	if err := c.sessionService.CueVideos(ctx, input.VideoIDs); err != nil {
		return fmt.Errorf("failed to cue videos: %w", err)
	}

	return nil
}

type CueVideoSetInput struct {
	Name string `json:"name" validate:"required"`
}

func (c *controller) handleCueVideoSet(ctx context.Context, _ *websocket.Conn, input CueVideoSetInput) error {
	if err := c.validate.Err(input); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationError, err)
	}

	if _, err := c.sessionService.CueVideoSet(ctx, input.Name); err != nil {
		return fmt.Errorf("failed to cue video set: %w", err)
	}

	return nil
}

type StreamInput struct {
	StreamID *int `json:"stream_id" validate:"required,gte=0"`
}

func (c *controller) handleMute(ctx context.Context, _ *websocket.Conn, input StreamInput) error {
	return c.streamMessage(ctx, input, c.sessionService.Mute)
}

func (c *controller) handleUnmute(ctx context.Context, _ *websocket.Conn, input StreamInput) error {
	return c.streamMessage(ctx, input, c.sessionService.Unmute)
}

func (c *controller) handleToggleMute(ctx context.Context, _ *websocket.Conn, input StreamInput) error {
	return c.streamMessage(ctx, input, c.sessionService.ToggleMute)
}

func (c *controller) streamMessage(ctx context.Context, input StreamInput, op func(context.Context, int) error) error {
	if err := c.validate.Err(input); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationError, err)
	}

	if err := op(ctx, *input.StreamID); err != nil {
		return fmt.Errorf("failed to update mute: %w", err)
	}

	return nil
}
