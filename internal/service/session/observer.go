package session

import "github.com/sharetube/multisync/internal/domain"

// observer turns engine hooks into control client events. Hooks run on the
// engine loop.
type observer struct {
	s *service
}

func (o *observer) OnAllInitialized(maxDuration float64) {
	o.s.notifier.Broadcast(o.s.notifyContext, EventAllInitialized, AllInitializedPayload{Duration: maxDuration})
}

func (o *observer) OnTimeUpdate(currentTime float64) {
	o.s.notifier.Broadcast(o.s.notifyContext, EventTimeUpdated, TimeUpdatedPayload{CurrentTime: currentTime})
}

func (o *observer) OnSyncStatusChange(streamID int, status domain.SyncStatus) {
	o.s.notifier.Broadcast(o.s.notifyContext, EventSyncStatusUpdated, SyncStatusUpdatedPayload{
		StreamID: streamID,
		Status:   status,
	})
}

func (o *observer) OnMuteChange(streamID int, muted bool) {
	o.s.notifier.Broadcast(o.s.notifyContext, EventMuteUpdated, MuteUpdatedPayload{
		StreamID: streamID,
		IsMuted:  muted,
	})
}

func (o *observer) OnAnomalousPlay(streamID int) {
	o.s.notifier.Broadcast(o.s.notifyContext, EventAnomalousPlay, AnomalousPlayPayload{StreamID: streamID})
}
