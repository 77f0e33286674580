package inmemory

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"github.com/sharetube/multisync/internal/repository/connection"
)

// repo tracks player connections by stream index and control connections by id.
type repo struct {
	players      map[int]*websocket.Conn
	playerByConn map[*websocket.Conn]int
	controls     map[string]*websocket.Conn
	mu           sync.RWMutex
	logger       *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		players:      make(map[int]*websocket.Conn),
		playerByConn: make(map[*websocket.Conn]int),
		controls:     make(map[string]*websocket.Conn),
		logger:       logger,
	}
}

func (r *repo) AddPlayer(conn *websocket.Conn, streamID int) error {
	funcName := "connection.inmemory.AddPlayer"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "stream_id", streamID)
	if _, ok := r.players[streamID]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}
	if _, ok := r.playerByConn[conn]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.players[streamID] = conn
	r.playerByConn[conn] = streamID

	return nil
}

// RemovePlayer drops conn and returns the stream it served.
func (r *repo) RemovePlayer(conn *websocket.Conn) (int, error) {
	funcName := "connection.inmemory.RemovePlayer"
	r.mu.Lock()
	defer r.mu.Unlock()

	streamID, ok := r.playerByConn[conn]
	if !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return 0, connection.ErrNotFound
	}

	delete(r.playerByConn, conn)
	delete(r.players, streamID)

	r.logger.Debug(funcName, "stream_id", streamID)
	return streamID, nil
}

func (r *repo) AddControl(conn *websocket.Conn, controlID string) error {
	funcName := "connection.inmemory.AddControl"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "control_id", controlID)
	if _, ok := r.controls[controlID]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.controls[controlID] = conn
	return nil
}

func (r *repo) RemoveControl(controlID string) error {
	funcName := "connection.inmemory.RemoveControl"
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.controls[controlID]; !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	delete(r.controls, controlID)

	r.logger.Debug(funcName, "control_id", controlID)
	return nil
}

// ControlConns returns the control connections ordered by id.
func (r *repo) ControlConns() []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := maps.Keys(r.controls)
	slices.Sort(ids)

	conns := make([]*websocket.Conn, 0, len(ids))
	for _, id := range ids {
		conns = append(conns, r.controls[id])
	}

	return conns
}
