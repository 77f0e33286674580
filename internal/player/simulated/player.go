// Package simulated is a software playback handle with a start delay, a playback
// rate and seek latency, standing in for a real embedded player.
package simulated

import (
	"sync"
	"time"

	"github.com/sharetube/multisync/internal/domain"
)

type Options struct {
	// StartDelay is the buffering time before the first play actually advances.
	StartDelay time.Duration
	// SeekDelay is the buffering time after every seek.
	SeekDelay time.Duration
	// Rate is the playback speed, 1 when zero.
	Rate     float64
	Duration float64
	// OnStateChange receives the state codes a real player would emit.
	OnStateChange func(domain.PlaybackState)
}

type Player struct {
	mu   sync.Mutex
	now  func() time.Time
	opts Options

	videoID  string
	playing  bool
	started  bool
	base     float64
	since    time.Time
	resumeAt time.Time
	muted    bool
	// buffering is set while a playing state is owed once resumeAt passes.
	buffering bool
}

func New(now func() time.Time, opts Options) *Player {
	if opts.Rate == 0 {
		opts.Rate = 1
	}

	return &Player{now: now, opts: opts, since: now()}
}

// Position also reports the pending playing state once buffering is over, the
// way an embedded player does when playback actually starts.
func (p *Player) Position() float64 {
	p.mu.Lock()
	now := p.now()
	pos := p.positionLocked(now)
	resumed := p.buffering && p.playing && !now.Before(p.resumeAt)
	if resumed {
		p.buffering = false
	}
	p.mu.Unlock()

	if resumed {
		p.emit(domain.StatePlaying)
	}

	return pos
}

func (p *Player) positionLocked(now time.Time) float64 {
	if !p.playing || now.Before(p.resumeAt) {
		return p.base
	}

	from := p.since
	if p.resumeAt.After(from) {
		from = p.resumeAt
	}

	pos := p.base + now.Sub(from).Seconds()*p.opts.Rate
	if p.opts.Duration > 0 && pos > p.opts.Duration {
		return p.opts.Duration
	}

	return pos
}

func (p *Player) Duration() (float64, bool) {
	return p.opts.Duration, p.opts.Duration > 0
}

func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	now := p.now()
	p.base = seconds
	p.since = now
	p.resumeAt = now.Add(p.opts.SeekDelay)
	buffering := p.playing && p.opts.SeekDelay > 0 && !p.buffering
	if buffering {
		p.buffering = true
	}
	p.mu.Unlock()

	if buffering {
		p.emit(domain.StateBuffering)
	}
}

func (p *Player) Play() {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}

	now := p.now()
	p.playing = true
	p.since = now
	if !p.started {
		p.started = true
		p.resumeAt = now.Add(p.opts.StartDelay)
	}
	p.buffering = now.Before(p.resumeAt)
	buffering := p.buffering
	p.mu.Unlock()

	// a player still loading reports buffering and never a premature playing
	if buffering {
		p.emit(domain.StateBuffering)
		return
	}
	p.emit(domain.StatePlaying)
}

// Pause on a paused player is a no-op and reports nothing.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}

	now := p.now()
	p.base = p.positionLocked(now)
	p.since = now
	p.playing = false
	p.buffering = false
	p.mu.Unlock()

	p.emit(domain.StatePaused)
}

func (p *Player) Mute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = true
}

func (p *Player) Unmute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = false
}

func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) Cue(videoID string) {
	p.mu.Lock()
	p.videoID = videoID
	p.playing = false
	p.started = false
	p.base = 0
	p.since = p.now()
	p.resumeAt = time.Time{}
	p.buffering = false
	p.mu.Unlock()

	p.emit(domain.StateCued)
}

func (p *Player) VideoID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.videoID
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) emit(state domain.PlaybackState) {
	if p.opts.OnStateChange != nil {
		p.opts.OnStateChange(state)
	}
}
