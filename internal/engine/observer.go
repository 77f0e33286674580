package engine

import "github.com/sharetube/multisync/internal/domain"

// Observer receives the engine's outbound hooks. Hooks run on the engine's
// execution context and must not block on it.
type Observer interface {
	OnAllInitialized(maxDuration float64)
	OnTimeUpdate(currentTime float64)
	OnSyncStatusChange(streamID int, status domain.SyncStatus)
	OnMuteChange(streamID int, muted bool)
	OnAnomalousPlay(streamID int)
}

type NopObserver struct{}

func (NopObserver) OnAllInitialized(float64)                  {}
func (NopObserver) OnTimeUpdate(float64)                      {}
func (NopObserver) OnSyncStatusChange(int, domain.SyncStatus) {}
func (NopObserver) OnMuteChange(int, bool)                    {}
func (NopObserver) OnAnomalousPlay(int)                       {}

// Recorder collects sync activity for metrics.
type Recorder interface {
	SyncStarted()
	SyncFinished(converged bool, ticks int)
	SeekIssued(streamID int)
	AnomalousPlay(streamID int)
	ReadyStreams(n int)
	CurrentTime(seconds float64)
}

type nopRecorder struct{}

func (nopRecorder) SyncStarted()           {}
func (nopRecorder) SyncFinished(bool, int) {}
func (nopRecorder) SeekIssued(int)         {}
func (nopRecorder) AnomalousPlay(int)      {}
func (nopRecorder) ReadyStreams(int)       {}
func (nopRecorder) CurrentTime(float64)    {}
