package engine

import "time"

// timePoller samples the slowest stream position while playing.
type timePoller struct {
	scheduler Scheduler
	interval  time.Duration
	streams   *registry
	isPlaying func() bool
	publish   func(currentTime float64)
}

func (p *timePoller) start() {
	p.scheduler.Schedule(TokenPoll, p.interval, p.tick)
}

func (p *timePoller) tick() {
	if !p.isPlaying() {
		return
	}

	p.poll()
	p.start()
}

func (p *timePoller) cancel() {
	p.scheduler.Cancel(TokenPoll)
}

// stop cancels the pending tick and samples once more so the published time
// is the pause point.
func (p *timePoller) stop() {
	p.cancel()
	p.poll()
}

func (p *timePoller) poll() {
	pos := positions(p.streams.sample())
	if len(pos) == 0 {
		return
	}

	p.publish(pos[argmin(pos)])
}
