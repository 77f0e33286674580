package session

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/sharetube/multisync/internal/engine"
)

func (s *service) ConnectPlayer(ctx context.Context, params *ConnectPlayerParams) error {
	if params.StreamID < 0 || params.StreamID >= s.streamCount {
		return fmt.Errorf("failed to connect player: %w: %d", engine.ErrStreamIndexOutOfRange, params.StreamID)
	}

	if err := s.connRepo.AddPlayer(params.Conn, params.StreamID); err != nil {
		return fmt.Errorf("failed to add player conn: %w", err)
	}

	h := s.newHandle(params.StreamID, params.Conn)
	if err := s.do(ctx, func() error {
		if err := s.engine.OnStreamReady(params.StreamID, h); err != nil {
			return err
		}

		s.players[params.StreamID] = h
		s.playerByConn[params.Conn] = h
		s.broadcastState()
		return nil
	}); err != nil {
		if _, rmErr := s.connRepo.RemovePlayer(params.Conn); rmErr != nil {
			s.logger.WarnContext(ctx, "failed to roll back player conn", "error", rmErr)
		}
		return fmt.Errorf("failed to register stream: %w", err)
	}

	return nil
}

func (s *service) DisconnectPlayer(ctx context.Context, conn *websocket.Conn) error {
	streamID, err := s.connRepo.RemovePlayer(conn)
	if err != nil {
		return fmt.Errorf("failed to remove player conn: %w", err)
	}

	return s.do(ctx, func() error {
		h, ok := s.playerByConn[conn]
		if !ok {
			return nil
		}
		delete(s.playerByConn, conn)

		if cur, ok := s.players[streamID]; ok && cur == h {
			delete(s.players, streamID)
			s.engine.OnStreamGone(streamID)
			s.broadcastState()
		}

		return nil
	})
}

func (s *service) ReportPosition(ctx context.Context, params *ReportPositionParams) error {
	return s.do(ctx, func() error {
		h, ok := s.players[params.StreamID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrPlayerNotConnected, params.StreamID)
		}

		h.Report(params.CurrentTime, params.Duration, params.IsMuted)
		return nil
	})
}

// ChangeState forwards a state event of a player client to the engine.
func (s *service) ChangeState(ctx context.Context, params *ChangeStateParams) error {
	return s.do(ctx, func() error {
		h, ok := s.players[params.StreamID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrPlayerNotConnected, params.StreamID)
		}

		h.ObserveState(params.State)
		s.engine.OnStateChange(params.StreamID, params.State)
		return nil
	})
}

func (s *service) ConnectControl(ctx context.Context, conn *websocket.Conn) (string, error) {
	controlID, err := s.generateID()
	if err != nil {
		return "", fmt.Errorf("failed to generate control id: %w", err)
	}

	if err := s.connRepo.AddControl(conn, controlID); err != nil {
		return "", fmt.Errorf("failed to add control conn: %w", err)
	}

	s.logger.InfoContext(ctx, "control connected", "control_id", controlID)
	return controlID, nil
}

func (s *service) DisconnectControl(ctx context.Context, controlID string) error {
	if err := s.connRepo.RemoveControl(controlID); err != nil {
		return fmt.Errorf("failed to remove control conn: %w", err)
	}

	s.logger.InfoContext(ctx, "control disconnected", "control_id", controlID)
	return nil
}
