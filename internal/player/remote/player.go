// Package remote implements a playback handle over a player client connected by
// WebSocket. Commands are written to the client and the position it reports is
// cached and extrapolated while the stream is playing.
package remote

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/multisync/internal/domain"
)

const writeWait = 5 * time.Second

type iConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
}

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type Player struct {
	streamID int
	conn     iConn
	logger   *slog.Logger
	now      func() time.Time

	writeMu sync.Mutex

	mu          sync.Mutex
	position    float64
	reportedAt  time.Time
	playing     bool
	duration    float64
	hasDuration bool
	muted       bool
}

func New(streamID int, conn iConn, logger *slog.Logger) *Player {
	return NewWithClock(streamID, conn, logger, time.Now)
}

func NewWithClock(streamID int, conn iConn, logger *slog.Logger, now func() time.Time) *Player {
	return &Player{
		streamID:   streamID,
		conn:       conn,
		logger:     logger.With("stream_id", streamID),
		now:        now,
		reportedAt: now(),
	}
}

// Report stores a position report sent by the client.
func (p *Player) Report(currentTime, duration float64, isMuted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = currentTime
	p.reportedAt = p.now()
	if duration > 0 {
		p.duration = duration
		p.hasDuration = true
	}
	p.muted = isMuted
}

// ObserveState tracks whether the client is advancing, so Position can
// extrapolate between reports.
func (p *Player) ObserveState(state domain.PlaybackState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.position = p.positionLocked(now)
	p.reportedAt = now
	p.playing = state == domain.StatePlaying
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked(p.now())
}

func (p *Player) positionLocked(now time.Time) float64 {
	if !p.playing {
		return p.position
	}

	pos := p.position + now.Sub(p.reportedAt).Seconds()
	if p.hasDuration && pos > p.duration {
		return p.duration
	}

	return pos
}

func (p *Player) Duration() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.hasDuration
}

func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	p.position = seconds
	p.reportedAt = p.now()
	p.mu.Unlock()

	p.send(&Output{Type: "SEEK", Payload: map[string]any{"seconds": seconds}})
}

func (p *Player) Play() {
	p.send(&Output{Type: "PLAY"})
}

func (p *Player) Pause() {
	p.mu.Lock()
	now := p.now()
	p.position = p.positionLocked(now)
	p.reportedAt = now
	p.playing = false
	p.mu.Unlock()

	p.send(&Output{Type: "PAUSE"})
}

func (p *Player) Mute() {
	p.mu.Lock()
	p.muted = true
	p.mu.Unlock()

	p.send(&Output{Type: "MUTE"})
}

func (p *Player) Unmute() {
	p.mu.Lock()
	p.muted = false
	p.mu.Unlock()

	p.send(&Output{Type: "UNMUTE"})
}

func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) Cue(videoID string) {
	p.mu.Lock()
	p.position = 0
	p.reportedAt = p.now()
	p.playing = false
	p.duration = 0
	p.hasDuration = false
	p.mu.Unlock()

	p.send(&Output{Type: "CUE", Payload: map[string]any{"video_id": videoID}})
}

// send never fails the caller. A broken connection is detected by the read side,
// which reports the stream as gone.
func (p *Player) send(out *Output) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.conn.SetWriteDeadline(p.now().Add(writeWait)); err != nil {
		p.logger.Warn("failed to set write deadline", "error", err)
	}

	if err := p.conn.WriteJSON(out); err != nil {
		p.logger.Warn("failed to write to player", "type", out.Type, "error", err)
	}
}
