package engine

import "errors"

var (
	ErrStreamIndexOutOfRange = errors.New("stream index out of range")
	ErrStreamNotFound        = errors.New("stream not found")
	ErrVideoCountMismatch    = errors.New("video count does not match stream count")
	ErrNegativeTime          = errors.New("target time must not be negative")
	ErrNilHandle             = errors.New("playback handle is nil")
)
