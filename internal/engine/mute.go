package engine

import "log/slog"

// muteManager applies the mute policy: manual calls always apply, automatic
// ones only with auto-mute enabled.
type muteManager struct {
	autoMute bool
	streams  *registry
	observer Observer
	logger   *slog.Logger
}

func (m *muteManager) mute(id int, manual bool) bool {
	if !manual && !m.autoMute {
		return false
	}

	s, ok := m.streams.get(id)
	if !ok {
		return false
	}

	s.Handle.Mute()
	if manual {
		s.ManualMuted = true
	}
	m.setMuted(s, true)

	return true
}

func (m *muteManager) unmute(id int, manual bool) bool {
	if !manual && !m.autoMute {
		return false
	}

	s, ok := m.streams.get(id)
	if !ok {
		return false
	}

	if !manual && s.ManualMuted {
		m.logger.Debug("keeping manually muted stream muted", "stream_id", id)
		return false
	}

	s.Handle.Unmute()
	s.ManualMuted = false
	m.setMuted(s, false)

	return true
}

func (m *muteManager) setMuted(s *Stream, muted bool) {
	if s.Muted == muted {
		return
	}

	s.Muted = muted
	m.observer.OnMuteChange(s.ID, muted)
}
