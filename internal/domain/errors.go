package domain

import "errors"

var (
	ErrUnknownPlaybackState = errors.New("unknown playback state")
	ErrEmptyVideoSet        = errors.New("video set must contain at least one video")
	ErrInvalidVideoSetName  = errors.New("invalid video set name")
)
