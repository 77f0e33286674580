package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var videoSetNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// VideoSet is a named, ordered selection of video ids, one per stream.
type VideoSet struct {
	Name     string   `json:"name"`
	VideoIDs []string `json:"video_ids"`
}

func NewVideoSet(name string, videoIDs []string) (VideoSet, error) {
	if !videoSetNameRe.MatchString(name) {
		return VideoSet{}, fmt.Errorf("%w: %q", ErrInvalidVideoSetName, name)
	}

	if len(videoIDs) == 0 {
		return VideoSet{}, ErrEmptyVideoSet
	}

	ids := make([]string, len(videoIDs))
	for i, id := range videoIDs {
		ids[i] = strings.TrimSpace(id)
		if ids[i] == "" {
			return VideoSet{}, fmt.Errorf("video id at position %d is empty", i)
		}
	}

	return VideoSet{Name: name, VideoIDs: ids}, nil
}

// Phase mirrors what a page would show: loading until every stream is initialized.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhasePaused  Phase = "paused"
	PhasePlaying Phase = "playing"
)

type StreamSnapshot struct {
	ID          int        `json:"id"`
	Ready       bool       `json:"ready"`
	Initialized bool       `json:"initialized"`
	Muted       bool       `json:"muted"`
	SyncStatus  SyncStatus `json:"sync_status"`
	Position    float64    `json:"position"`
}

type Snapshot struct {
	Phase       Phase            `json:"phase"`
	IsPlaying   bool             `json:"is_playing"`
	IsSyncing   bool             `json:"is_syncing"`
	CurrentTime float64          `json:"current_time"`
	MaxDuration *float64         `json:"max_duration"`
	ReadyCount  int              `json:"ready_count"`
	StreamCount int              `json:"stream_count"`
	TargetID    *int             `json:"target_id"`
	VideoIDs    []string         `json:"video_ids"`
	Streams     []StreamSnapshot `json:"streams"`
}
