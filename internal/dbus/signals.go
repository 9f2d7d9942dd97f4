package dbus

import (
	"fmt"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

// EmitPlaybackFinished emits the PlaybackFinished signal for a completed alert.
func (s *ToneService) EmitPlaybackFinished(pb audio.Playback) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := conn.Emit(DBusPath, DBusInterface+".PlaybackFinished", pb.ID.String(), uint32(pb.Duration.Milliseconds()))
	if err != nil {
		return fmt.Errorf("failed to emit PlaybackFinished signal: %w", err)
	}

	s.logger.Debug("emitted PlaybackFinished signal", "id", pb.ID.String())
	return nil
}
