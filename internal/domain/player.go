package domain

import (
	"fmt"
	"strconv"
)

// PlaybackState is the state code a player reports on every state change.
type PlaybackState int

const (
	StateUnstarted PlaybackState = -1
	StateEnded     PlaybackState = 0
	StatePlaying   PlaybackState = 1
	StatePaused    PlaybackState = 2
	StateBuffering PlaybackState = 3
	StateCued      PlaybackState = 5
)

var playbackStateNames = map[PlaybackState]string{
	StateUnstarted: "unstarted",
	StateEnded:     "ended",
	StatePlaying:   "playing",
	StatePaused:    "paused",
	StateBuffering: "buffering",
	StateCued:      "cued",
}

func ParsePlaybackState(code int) (PlaybackState, error) {
	s := PlaybackState(code)
	if _, ok := playbackStateNames[s]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPlaybackState, code)
	}

	return s, nil
}

func (s PlaybackState) String() string {
	if name, ok := playbackStateNames[s]; ok {
		return name
	}

	return "PlaybackState(" + strconv.Itoa(int(s)) + ")"
}

func (s *PlaybackState) UnmarshalJSON(data []byte) error {
	code, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlaybackState, data)
	}

	parsed, err := ParsePlaybackState(code)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// SyncStatus is the per-stream status indicator maintained by the sync engine.
type SyncStatus int

const (
	SyncUnknown SyncStatus = iota
	SyncInSync
	SyncOutOfSync
	SyncTarget
)

func (s SyncStatus) String() string {
	switch s {
	case SyncInSync:
		return "in_sync"
	case SyncOutOfSync:
		return "out_of_sync"
	case SyncTarget:
		return "target"
	default:
		return "unknown"
	}
}

func (s SyncStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
