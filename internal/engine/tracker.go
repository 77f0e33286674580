package engine

// initTracker counts streams that finished their first cue and reported paused.
type initTracker struct {
	expected    int
	ready       map[int]bool
	readyCount  int
	maxDuration float64
	hasDuration bool
	fired       bool
}

func newInitTracker(expected int) *initTracker {
	return &initTracker{
		expected: expected,
		ready:    make(map[int]bool, expected),
	}
}

func (t *initTracker) isReady(id int) bool {
	return t.ready[id]
}

// markReady moves stream id from unstarted to ready-paused. complete is true for
// exactly one call per cue cycle: the one that makes every stream ready.
func (t *initTracker) markReady(id int, duration float64, known bool) (complete bool) {
	if t.ready[id] {
		return false
	}

	if known {
		if !t.hasDuration {
			t.maxDuration = duration
			t.hasDuration = true
		} else {
			t.maxDuration = max(t.maxDuration, duration)
		}
	}

	t.ready[id] = true
	t.readyCount++

	if t.readyCount == t.expected && !t.fired {
		t.fired = true
		return true
	}

	return false
}

func (t *initTracker) initialized() bool {
	return t.fired
}

func (t *initTracker) duration() (float64, bool) {
	return t.maxDuration, t.hasDuration
}

func (t *initTracker) reset() {
	clear(t.ready)
	t.readyCount = 0
	t.maxDuration = 0
	t.hasDuration = false
	t.fired = false
}
