package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/metrics"
	"github.com/sharetube/multisync/internal/service/session"
	"github.com/sharetube/multisync/pkg/validator"
	"github.com/sharetube/multisync/pkg/wsrouter"
)

type iSessionService interface {
	StreamCount() int
	ConnectPlayer(context.Context, *session.ConnectPlayerParams) error
	DisconnectPlayer(context.Context, *websocket.Conn) error
	ReportPosition(context.Context, *session.ReportPositionParams) error
	ChangeState(context.Context, *session.ChangeStateParams) error
	ConnectControl(context.Context, *websocket.Conn) (string, error)
	DisconnectControl(context.Context, string) error
	// playback
	State(context.Context) (domain.Snapshot, error)
	Play(context.Context) error
	Pause(context.Context) error
	Sync(context.Context) (session.SyncResponse, error)
	CueVideos(context.Context, []string) error
	SetTime(context.Context, float64) error
	Mute(context.Context, int) error
	Unmute(context.Context, int) error
	ToggleMute(context.Context, int) error
	// video sets
	SaveVideoSet(context.Context, string, []string) (domain.VideoSet, error)
	GetVideoSet(context.Context, string) (domain.VideoSet, error)
	ListVideoSets(context.Context) ([]domain.VideoSet, error)
	DeleteVideoSet(context.Context, string) error
	CueVideoSet(context.Context, string) (domain.VideoSet, error)
	VideoSetDetails(context.Context, string) (session.VideoSetDetails, error)
}

type iConnRepo interface {
	ControlConns() []*websocket.Conn
}

type controller struct {
	sessionService iSessionService
	connRepo       iConnRepo
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	validate       *validator.Validator
	logger         *slog.Logger
	playerMux      *wsrouter.WSRouter
	controlMux     *wsrouter.WSRouter
	controls       map[*websocket.Conn]*controlClient
	controlsMu     sync.RWMutex
}

func NewController(sessionService iSessionService, connRepo iConnRepo, m *metrics.Metrics, logger *slog.Logger) *controller {
	c := &controller{
		sessionService: sessionService,
		connRepo:       connRepo,
		metrics:        m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
		controls: make(map[*websocket.Conn]*controlClient),
	}
	c.playerMux = c.getPlayerWSRouter()
	c.controlMux = c.getControlWSRouter()

	return c
}
