// Package enginetest provides a manual clock scheduler and a recording playback
// handle for driving the sync engine deterministically in tests.
package enginetest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sharetube/multisync/internal/engine"
)

type pending struct {
	at  time.Duration
	seq int
	fn  func()
}

// Scheduler fires callbacks only when Advance moves its clock past their deadline.
type Scheduler struct {
	now     time.Duration
	seq     int
	pending map[engine.Token]pending
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[engine.Token]pending)}
}

func (s *Scheduler) Schedule(token engine.Token, delay time.Duration, fn func()) {
	s.seq++
	s.pending[token] = pending{at: s.now + delay, seq: s.seq, fn: fn}
}

func (s *Scheduler) Cancel(token engine.Token) {
	delete(s.pending, token)
}

func (s *Scheduler) Pending(token engine.Token) bool {
	_, ok := s.pending[token]
	return ok
}

// Now is the elapsed time on the manual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves the clock by d, firing due callbacks in deadline order.
// Callbacks scheduled while advancing fire too when they fall inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		token, p, ok := s.next()
		if !ok || p.at > end {
			break
		}

		delete(s.pending, token)
		s.now = p.at
		p.fn()
	}
	s.now = end
}

func (s *Scheduler) next() (engine.Token, pending, bool) {
	tokens := make([]engine.Token, 0, len(s.pending))
	for t := range s.pending {
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return 0, pending{}, false
	}

	sort.Slice(tokens, func(i, j int) bool {
		a, b := s.pending[tokens[i]], s.pending[tokens[j]]
		if a.at != b.at {
			return a.at < b.at
		}
		return a.seq < b.seq
	})

	return tokens[0], s.pending[tokens[0]], true
}

// Handle is a playback handle whose position only changes when told to.
type Handle struct {
	mu          sync.Mutex
	position    float64
	duration    float64
	hasDuration bool
	muted       bool
	calls       []string
	seeks       []float64
}

func NewHandle(position float64) *Handle {
	return &Handle{position: position}
}

func (h *Handle) SetPosition(p float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = p
}

func (h *Handle) SetDuration(d float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.duration = d
	h.hasDuration = true
}

func (h *Handle) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *Handle) Duration() (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration, h.hasDuration
}

func (h *Handle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = seconds
	h.seeks = append(h.seeks, seconds)
	h.calls = append(h.calls, fmt.Sprintf("seek:%.3f", seconds))
}

func (h *Handle) Play()  { h.record("play") }
func (h *Handle) Pause() { h.record("pause") }

func (h *Handle) Mute() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = true
	h.calls = append(h.calls, "mute")
}

func (h *Handle) Unmute() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = false
	h.calls = append(h.calls, "unmute")
}

func (h *Handle) IsMuted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.muted
}

func (h *Handle) Cue(videoID string) { h.record("cue:" + videoID) }

func (h *Handle) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *Handle) Seeks() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.seeks...)
}

func (h *Handle) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
	h.seeks = nil
}

func (h *Handle) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}
