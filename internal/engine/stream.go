package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/sharetube/multisync/internal/domain"
)

type Stream struct {
	ID     int
	Handle PlaybackHandle
	Muted  bool
	// ManualMuted is set by an explicit user mute and keeps automatic unmutes away.
	ManualMuted bool
	SyncStatus  domain.SyncStatus
}

type sample struct {
	id       int
	position float64
}

// registry holds streams by ordinal index; a nil slot has not reported ready yet.
type registry struct {
	streams []*Stream
}

func newRegistry(size int) *registry {
	return &registry{streams: make([]*Stream, size)}
}

func (r *registry) get(id int) (*Stream, bool) {
	if id < 0 || id >= len(r.streams) || r.streams[id] == nil {
		return nil, false
	}

	return r.streams[id], true
}

func (r *registry) set(s *Stream) {
	r.streams[s.ID] = s
}

func (r *registry) remove(id int) {
	r.streams[id] = nil
}

func (r *registry) size() int {
	return len(r.streams)
}

func (r *registry) count() int {
	n := 0
	r.each(func(*Stream) { n++ })
	return n
}

// each visits registered streams in ascending id order.
func (r *registry) each(fn func(s *Stream)) {
	for _, s := range r.streams {
		if s != nil {
			fn(s)
		}
	}
}

// sample reads every registered stream's position once.
func (r *registry) sample() []sample {
	samples := make([]sample, 0, len(r.streams))
	r.each(func(s *Stream) {
		samples = append(samples, sample{id: s.ID, position: s.Handle.Position()})
	})

	return samples
}

func positions(samples []sample) []float64 {
	p := make([]float64, len(samples))
	for i, s := range samples {
		p[i] = s.position
	}

	return p
}

// argmin returns the index of the smallest value, the first one on ties.
// It returns -1 for an empty slice.
func argmin[T constraints.Ordered](values []T) int {
	idx := -1
	for i, v := range values {
		if idx == -1 || v < values[idx] {
			idx = i
		}
	}

	return idx
}
