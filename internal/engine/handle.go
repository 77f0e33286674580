package engine

// PlaybackHandle is the capability set of one externally controlled video stream.
// Every call is fire-and-forget; the player reports the outcome asynchronously
// through state change events.
type PlaybackHandle interface {
	// Position is the current playback position in seconds.
	Position() float64
	// Duration is the video length in seconds, ok is false while it is unknown.
	Duration() (seconds float64, ok bool)
	Seek(seconds float64)
	Play()
	Pause()
	Mute()
	Unmute()
	IsMuted() bool
	// Cue loads videoID without starting playback.
	Cue(videoID string)
}
