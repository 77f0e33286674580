package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgmin(t *testing.T) {
	assert.Equal(t, -1, argmin([]float64{}))
	assert.Equal(t, 0, argmin([]float64{10.0, 10.03, 10.2}))
	assert.Equal(t, 2, argmin([]float64{3, 2, 1}))
	// ties go to the lowest index
	assert.Equal(t, 1, argmin([]float64{5, 1, 1, 1}))
	assert.Equal(t, 0, argmin([]string{"a", "b"}))
}

func TestInitTracker(t *testing.T) {
	tr := newInitTracker(3)

	assert.False(t, tr.markReady(0, 120.5, true))
	assert.False(t, tr.markReady(0, 999, true), "second paused event of the same stream is ignored")
	assert.Equal(t, 1, tr.readyCount)

	assert.False(t, tr.markReady(1, 0, false))
	d, ok := tr.duration()
	assert.True(t, ok)
	assert.Equal(t, 120.5, d)

	assert.True(t, tr.markReady(2, 121.0, true))
	assert.Equal(t, 3, tr.readyCount)
	assert.True(t, tr.initialized())

	d, _ = tr.duration()
	assert.Equal(t, 121.0, d)

	tr.reset()
	assert.Equal(t, 0, tr.readyCount)
	assert.False(t, tr.initialized())
	assert.False(t, tr.isReady(0))
	_, ok = tr.duration()
	assert.False(t, ok)
}

func TestInitTrackerReadyCountMonotonic(t *testing.T) {
	tr := newInitTracker(4)

	fired := 0
	last := 0
	for _, id := range []int{2, 2, 0, 3, 0, 1, 1, 3} {
		if tr.markReady(id, 10, true) {
			fired++
		}
		assert.GreaterOrEqual(t, tr.readyCount, last)
		last = tr.readyCount
	}

	assert.Equal(t, 1, fired)
	assert.Equal(t, 4, tr.readyCount)
}
