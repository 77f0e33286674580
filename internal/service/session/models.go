package session

import (
	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

const (
	EventState             = "STATE"
	EventAllInitialized    = "ALL_INITIALIZED"
	EventTimeUpdated       = "TIME_UPDATED"
	EventSyncStatusUpdated = "SYNC_STATUS_UPDATED"
	EventMuteUpdated       = "MUTE_UPDATED"
	EventAnomalousPlay     = "ANOMALOUS_PLAY"
)

type AllInitializedPayload struct {
	Duration float64 `json:"duration"`
}

type TimeUpdatedPayload struct {
	CurrentTime float64 `json:"current_time"`
}

type SyncStatusUpdatedPayload struct {
	StreamID int               `json:"stream_id"`
	Status   domain.SyncStatus `json:"status"`
}

type MuteUpdatedPayload struct {
	StreamID int  `json:"stream_id"`
	IsMuted  bool `json:"is_muted"`
}

type AnomalousPlayPayload struct {
	StreamID int `json:"stream_id"`
}

type ConnectPlayerParams struct {
	Conn     *websocket.Conn
	StreamID int
}

type ReportPositionParams struct {
	StreamID    int
	CurrentTime float64
	Duration    float64
	IsMuted     bool
}

type ChangeStateParams struct {
	StreamID int
	State    domain.PlaybackState
}

type SyncResponse struct {
	Started bool            `json:"started"`
	State   domain.Snapshot `json:"state"`
}

type VideoSetDetails struct {
	Name   string                  `json:"name"`
	Videos []ytvideodata.VideoData `json:"videos"`
}
