// Package session runs one sync engine on its loop and connects it to player
// clients, control clients and stored video sets.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/domain"
	"github.com/sharetube/multisync/internal/engine"
	"github.com/sharetube/multisync/internal/player/remote"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

var ErrPlayerNotConnected = errors.New("player not connected")

type iConnRepo interface {
	AddPlayer(*websocket.Conn, int) error
	RemovePlayer(*websocket.Conn) (int, error)
	AddControl(*websocket.Conn, string) error
	RemoveControl(string) error
}

type iVideoSetRepo interface {
	Save(context.Context, domain.VideoSet) error
	Get(context.Context, string) (domain.VideoSet, error)
	List(context.Context) ([]domain.VideoSet, error)
	Delete(context.Context, string) error
}

type iVideoDataClient interface {
	Get(ctx context.Context, videoID string) (*ytvideodata.VideoData, error)
}

// iNotifier fans an event out to every control client.
type iNotifier interface {
	Broadcast(ctx context.Context, eventType string, payload any)
}

// iPlayerHandle is a playback handle fed by the reports of its client.
type iPlayerHandle interface {
	engine.PlaybackHandle
	Report(currentTime, duration float64, isMuted bool)
	ObserveState(state domain.PlaybackState)
}

type Config struct {
	Engine engine.Config
}

type service struct {
	engine        *engine.Engine
	loop          *engine.Loop
	connRepo      iConnRepo
	videoSetRepo  iVideoSetRepo
	videoData     iVideoDataClient
	notifier      iNotifier
	logger        *slog.Logger
	newHandle     func(streamID int, conn *websocket.Conn) iPlayerHandle
	players       map[int]iPlayerHandle
	playerByConn  map[*websocket.Conn]iPlayerHandle
	streamCount   int
	generateID    func() (string, error)
	notifyContext context.Context
}

func NewService(
	cfg *Config,
	loop *engine.Loop,
	connRepo iConnRepo,
	videoSetRepo iVideoSetRepo,
	videoData iVideoDataClient,
	recorder engine.Recorder,
	logger *slog.Logger,
) (*service, error) {
	s := &service{
		loop:          loop,
		connRepo:      connRepo,
		videoSetRepo:  videoSetRepo,
		videoData:     videoData,
		notifier:      nopNotifier{},
		logger:        logger,
		players:       make(map[int]iPlayerHandle),
		playerByConn:  make(map[*websocket.Conn]iPlayerHandle),
		streamCount:   cfg.Engine.StreamCount,
		notifyContext: context.Background(),
	}

	s.newHandle = func(streamID int, conn *websocket.Conn) iPlayerHandle {
		return remote.New(streamID, conn, logger)
	}
	s.generateID = func() (string, error) {
		id, err := uuid.NewV7()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}

	e, err := engine.New(cfg.Engine, loop, &observer{s: s}, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	s.engine = e

	return s, nil
}

// SetNotifier must be called before the first operation.
func (s *service) SetNotifier(n iNotifier) {
	s.notifier = n
}

func (s *service) StreamCount() int {
	return s.streamCount
}

// do runs fn on the engine loop.
func (s *service) do(ctx context.Context, fn func() error) error {
	var fnErr error
	if err := s.loop.Do(ctx, func() { fnErr = fn() }); err != nil {
		return fmt.Errorf("failed to run on loop: %w", err)
	}

	return fnErr
}

func (s *service) broadcastState() {
	s.notifier.Broadcast(s.notifyContext, EventState, s.engine.Snapshot())
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(context.Context, string, any) {}
