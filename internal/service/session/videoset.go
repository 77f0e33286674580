package session

import (
	"context"
	"fmt"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/engine"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

func (s *service) SaveVideoSet(ctx context.Context, name string, videoIDs []string) (domain.VideoSet, error) {
	set, err := domain.NewVideoSet(name, videoIDs)
	if err != nil {
		return domain.VideoSet{}, fmt.Errorf("failed to create video set: %w", err)
	}

	if len(set.VideoIDs) != s.streamCount {
		return domain.VideoSet{}, fmt.Errorf("failed to create video set: %w: got %d, want %d",
			engine.ErrVideoCountMismatch, len(set.VideoIDs), s.streamCount)
	}

	if err := s.videoSetRepo.Save(ctx, set); err != nil {
		return domain.VideoSet{}, fmt.Errorf("failed to save video set: %w", err)
	}

	return set, nil
}

func (s *service) GetVideoSet(ctx context.Context, name string) (domain.VideoSet, error) {
	set, err := s.videoSetRepo.Get(ctx, name)
	if err != nil {
		return domain.VideoSet{}, fmt.Errorf("failed to get video set: %w", err)
	}

	return set, nil
}

func (s *service) ListVideoSets(ctx context.Context) ([]domain.VideoSet, error) {
	sets, err := s.videoSetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list video sets: %w", err)
	}

	return sets, nil
}

func (s *service) DeleteVideoSet(ctx context.Context, name string) error {
	if err := s.videoSetRepo.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete video set: %w", err)
	}

	return nil
}

// CueVideoSet loads a stored set and cues it on every stream.
func (s *service) CueVideoSet(ctx context.Context, name string) (domain.VideoSet, error) {
	set, err := s.GetVideoSet(ctx, name)
	if err != nil {
		return domain.VideoSet{}, err
	}

	if err := s.CueVideos(ctx, set.VideoIDs); err != nil {
		return domain.VideoSet{}, err
	}

	return set, nil
}

// VideoSetDetails looks up title and author of every video in the set.
func (s *service) VideoSetDetails(ctx context.Context, name string) (VideoSetDetails, error) {
	set, err := s.GetVideoSet(ctx, name)
	if err != nil {
		return VideoSetDetails{}, err
	}

	details := VideoSetDetails{Name: set.Name, Videos: make([]ytvideodata.VideoData, 0, len(set.VideoIDs))}
	for _, id := range set.VideoIDs {
		data, err := s.videoData.Get(ctx, id)
		if err != nil {
			return VideoSetDetails{}, fmt.Errorf("failed to get video data for %s: %w", id, err)
		}
		details.Videos = append(details.Videos, *data)
	}

	return details, nil
}
