package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/sharetube/multisync/internal/domain"
)

// syncCoordinator elects the slowest stream as target and seeks every other
// stream to it until all of them are within allowedDiff.
type syncCoordinator struct {
	allowedDiff   float64
	retryInterval time.Duration
	scheduler     Scheduler
	streams       *registry
	mutes         *muteManager
	recorder      Recorder
	logger        *slog.Logger
	isPlaying     func() bool
	isReady       func() bool
	setStatus     func(s *Stream, status domain.SyncStatus)

	isSyncing bool
	targetID  int
	ticks     int
}

func (c *syncCoordinator) begin() bool {
	if !c.isPlaying() || c.isSyncing {
		return false
	}
	// correction runs only once every stream of the cue cycle reported paused
	if !c.isReady() {
		c.logger.Info("sync requested before all streams are initialized")
		return false
	}

	samples := c.streams.sample()
	if len(samples) == 0 {
		return false
	}

	c.isSyncing = true
	c.ticks = 0
	c.recorder.SyncStarted()

	target := samples[argmin(positions(samples))].id
	c.targetID = target
	c.logger.Info("sync target elected", "stream_id", target)

	// demote first so no two streams carry the target status at once
	c.streams.each(func(s *Stream) {
		if s.ID != target && s.SyncStatus == domain.SyncTarget {
			c.setStatus(s, domain.SyncUnknown)
		}
	})

	for _, smp := range samples {
		if smp.id == target {
			continue
		}
		c.mutes.mute(smp.id, false)
	}

	s, _ := c.streams.get(target)
	c.mutes.unmute(target, false)
	c.setStatus(s, domain.SyncTarget)

	c.correct()
	return true
}

// correct is one correcting tick. Positions are sampled fresh on every tick.
func (c *syncCoordinator) correct() {
	if !c.isSyncing {
		return
	}

	c.ticks++

	samples := c.streams.sample()
	targetPos, ok := 0.0, false
	for _, smp := range samples {
		if smp.id == c.targetID {
			targetPos, ok = smp.position, true
		}
	}
	if !ok {
		c.logger.Warn("sync target is gone, ending sync", "stream_id", c.targetID)
		c.finish(false)
		return
	}

	inSync := 0
	for _, smp := range samples {
		if smp.id == c.targetID {
			continue
		}

		s, _ := c.streams.get(smp.id)
		diff := math.Abs(smp.position - targetPos)
		if diff > c.allowedDiff {
			s.Handle.Seek(targetPos)
			c.recorder.SeekIssued(smp.id)
			c.setStatus(s, domain.SyncOutOfSync)
			c.logger.Debug("stream out of sync", "stream_id", smp.id, "diff", diff, "seek_to", targetPos)
			continue
		}

		inSync++
		c.setStatus(s, domain.SyncInSync)
		c.logger.Debug("stream in sync", "stream_id", smp.id, "diff", diff, "allowed", c.allowedDiff)
	}

	if inSync >= len(samples)-1 {
		c.logger.Info("streams in sync", "target_id", c.targetID, "ticks", c.ticks)
		c.finish(true)
		return
	}

	c.scheduler.Schedule(TokenSyncRetry, c.retryInterval, c.retry)
}

func (c *syncCoordinator) retry() {
	if !c.isPlaying() {
		c.stop()
		return
	}

	c.correct()
}

func (c *syncCoordinator) finish(converged bool) {
	c.scheduler.Cancel(TokenSyncRetry)
	c.isSyncing = false
	c.recorder.SyncFinished(converged, c.ticks)
}

// stop force-terminates a running session regardless of convergence.
func (c *syncCoordinator) stop() {
	c.scheduler.Cancel(TokenSyncRetry)
	if c.isSyncing {
		c.finish(false)
	}
}

func (c *syncCoordinator) clearTarget() {
	c.targetID = -1
}
