package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/sharetube/multisync/internal/domain"
)

// Engine keeps a fixed set of playback streams aligned in time.
//
// Engine is not safe for concurrent use. All methods, and every callback handed
// to the Scheduler, must run on one execution context such as a Loop.
type Engine struct {
	cfg       Config
	scheduler Scheduler
	observer  Observer
	recorder  Recorder
	logger    *slog.Logger

	streams  *registry
	videoIDs []string

	isPlaying   bool
	currentTime float64

	tracker *initTracker
	mutes   *muteManager
	poller  *timePoller
	sync    *syncCoordinator
}

func New(cfg Config, scheduler Scheduler, observer Observer, recorder Recorder, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if observer == nil {
		observer = NopObserver{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:       cfg,
		scheduler: scheduler,
		observer:  observer,
		recorder:  recorder,
		logger:    logger,
		streams:   newRegistry(cfg.StreamCount),
		videoIDs:  slices.Clone(cfg.InitialVideoIDs),
		tracker:   newInitTracker(cfg.StreamCount),
	}

	e.mutes = &muteManager{
		autoMute: cfg.AutoMute,
		streams:  e.streams,
		observer: observer,
		logger:   logger,
	}
	e.poller = &timePoller{
		scheduler: scheduler,
		interval:  cfg.PollInterval,
		streams:   e.streams,
		isPlaying: e.IsPlaying,
		publish:   e.publishTime,
	}
	e.sync = &syncCoordinator{
		allowedDiff:   cfg.AllowedDiff.Seconds(),
		retryInterval: cfg.SyncRetryInterval,
		scheduler:     scheduler,
		streams:       e.streams,
		mutes:         e.mutes,
		recorder:      recorder,
		logger:        logger,
		isPlaying:     e.IsPlaying,
		isReady:       e.tracker.initialized,
		setStatus:     e.setStatus,
		targetID:      -1,
	}

	return e, nil
}

// OnStreamReady registers the handle for stream id, replacing a previous one,
// and cues the stream when the video set is already known.
func (e *Engine) OnStreamReady(id int, h PlaybackHandle) error {
	if id < 0 || id >= e.streams.size() {
		return fmt.Errorf("%w: %d", ErrStreamIndexOutOfRange, id)
	}
	if h == nil {
		return ErrNilHandle
	}

	s := &Stream{ID: id, Handle: h, Muted: h.IsMuted()}
	if prev, ok := e.streams.get(id); ok {
		s.ManualMuted = prev.ManualMuted
		s.SyncStatus = prev.SyncStatus
		e.logger.Info("stream handle replaced", "stream_id", id)
	} else {
		e.logger.Info("stream ready", "stream_id", id)
	}
	e.streams.set(s)

	e.cueStream(s)
	return nil
}

// OnStreamGone drops stream id from the registry.
func (e *Engine) OnStreamGone(id int) {
	if _, ok := e.streams.get(id); !ok {
		return
	}

	e.streams.remove(id)
	if e.sync.targetID == id {
		e.sync.clearTarget()
	}
	e.logger.Info("stream gone", "stream_id", id)
}

func (e *Engine) OnStateChange(id int, state domain.PlaybackState) {
	s, ok := e.streams.get(id)
	if !ok {
		e.logger.Debug("state change for unknown stream", "stream_id", id, "state", state)
		return
	}

	e.logger.Debug("state changed", "stream_id", id, "state", state)

	if state == domain.StatePlaying && !e.isPlaying {
		e.logger.Info("stream playing without permission, pausing all", "stream_id", id)
		e.recorder.AnomalousPlay(id)
		e.observer.OnAnomalousPlay(id)
		e.Pause()
	}

	if state == domain.StatePaused && !e.tracker.isReady(id) {
		duration, known := s.Handle.Duration()
		complete := e.tracker.markReady(id, duration, known)
		e.recorder.ReadyStreams(e.tracker.readyCount)

		if complete {
			maxDuration, _ := e.tracker.duration()
			e.logger.Info("all streams initialized", "max_duration", maxDuration)
			e.observer.OnAllInitialized(maxDuration)

			for i := 1; i < e.streams.size(); i++ {
				e.mutes.mute(i, false)
			}
		}
	}
}

func (e *Engine) Play() {
	e.isPlaying = true

	e.streams.each(func(s *Stream) {
		s.Handle.Play()
	})

	e.poller.start()
}

func (e *Engine) Pause() {
	e.sync.stop()
	e.isPlaying = false

	e.streams.each(func(s *Stream) {
		s.Handle.Pause()
	})

	e.poller.stop()
}

// BeginSync starts a sync session. It reports false when playback is stopped,
// a session is already running or the current cue cycle is not initialized.
func (e *Engine) BeginSync() bool {
	return e.sync.begin()
}

// CueVideos loads one video per stream at position zero and starts a new cue cycle.
func (e *Engine) CueVideos(ids []string) error {
	if len(ids) != e.cfg.StreamCount {
		return fmt.Errorf("%w: got %d, want %d", ErrVideoCountMismatch, len(ids), e.cfg.StreamCount)
	}

	e.Pause()
	e.tracker.reset()
	e.recorder.ReadyStreams(0)
	e.sync.clearTarget()
	e.streams.each(func(s *Stream) {
		e.setStatus(s, domain.SyncUnknown)
	})

	e.videoIDs = slices.Clone(ids)
	e.publishTime(0)

	e.logger.Info("cueing videos", "video_ids", ids)
	e.streams.each(e.cueStream)

	return nil
}

// SetTargetTime pauses every stream, seeks it to seconds and resumes playback.
func (e *Engine) SetTargetTime(seconds float64) error {
	if seconds < 0 {
		return ErrNegativeTime
	}

	e.poller.cancel()
	e.streams.each(func(s *Stream) {
		s.Handle.Pause()
		s.Handle.Seek(seconds)
	})

	e.Play()
	return nil
}

func (e *Engine) MuteStream(id int) error {
	if _, ok := e.streams.get(id); !ok {
		return fmt.Errorf("%w: %d", ErrStreamNotFound, id)
	}

	e.mutes.mute(id, true)
	return nil
}

func (e *Engine) UnmuteStream(id int) error {
	if _, ok := e.streams.get(id); !ok {
		return fmt.Errorf("%w: %d", ErrStreamNotFound, id)
	}

	e.mutes.unmute(id, true)
	return nil
}

// ToggleMute flips the mute state the player itself reports.
func (e *Engine) ToggleMute(id int) error {
	s, ok := e.streams.get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrStreamNotFound, id)
	}

	if s.Handle.IsMuted() {
		e.mutes.unmute(id, true)
	} else {
		e.mutes.mute(id, true)
	}

	return nil
}

func (e *Engine) IsPlaying() bool {
	return e.isPlaying
}

func (e *Engine) IsSyncing() bool {
	return e.sync.isSyncing
}

func (e *Engine) CurrentTime() float64 {
	return e.currentTime
}

func (e *Engine) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Phase:       domain.PhaseLoading,
		IsPlaying:   e.isPlaying,
		IsSyncing:   e.sync.isSyncing,
		CurrentTime: e.currentTime,
		ReadyCount:  e.tracker.readyCount,
		StreamCount: e.cfg.StreamCount,
		VideoIDs:    slices.Clone(e.videoIDs),
		Streams:     make([]domain.StreamSnapshot, 0, e.streams.size()),
	}

	if e.tracker.initialized() {
		snap.Phase = domain.PhasePaused
		if e.isPlaying {
			snap.Phase = domain.PhasePlaying
		}
	}

	if d, ok := e.tracker.duration(); ok {
		snap.MaxDuration = &d
	}

	if _, ok := e.streams.get(e.sync.targetID); ok {
		id := e.sync.targetID
		snap.TargetID = &id
	}

	for id := range e.streams.size() {
		s, ok := e.streams.get(id)
		if !ok {
			snap.Streams = append(snap.Streams, domain.StreamSnapshot{ID: id})
			continue
		}

		snap.Streams = append(snap.Streams, domain.StreamSnapshot{
			ID:          id,
			Ready:       true,
			Initialized: e.tracker.isReady(id),
			Muted:       s.Muted,
			SyncStatus:  s.SyncStatus,
			Position:    s.Handle.Position(),
		})
	}

	return snap
}

func (e *Engine) cueStream(s *Stream) {
	if s.ID >= len(e.videoIDs) {
		return
	}

	// play then pause forces the player to buffer the first frame
	s.Handle.Cue(e.videoIDs[s.ID])
	s.Handle.Play()
	s.Handle.Pause()
	s.Handle.Seek(0)
}

func (e *Engine) publishTime(t float64) {
	e.currentTime = t
	e.recorder.CurrentTime(t)
	e.observer.OnTimeUpdate(t)
}

func (e *Engine) setStatus(s *Stream, status domain.SyncStatus) {
	if s.SyncStatus == status {
		return
	}

	s.SyncStatus = status
	e.observer.OnSyncStatusChange(s.ID, status)
}
