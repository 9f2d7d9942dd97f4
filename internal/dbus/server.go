package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

// ErrNotRunning is returned when an alert is requested from a stopped service.
var ErrNotRunning = errors.New("tone service not running")

// Player is the subset of the audio manager the service drives.
type Player interface {
	Prime()
	Play(d time.Duration)
	Status() audio.Status
}

// ToneService exports the alert player on the session bus.
type ToneService struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	player  Player
	busName string

	mu      sync.RWMutex
	running bool

	// inflight tracks Play calls still running in the background.
	inflight sync.WaitGroup
}

// NewToneService creates a service that will claim busName.
func NewToneService(player Player, busName string, logger *slog.Logger) *ToneService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToneService{
		logger:  logger,
		player:  player,
		busName: busName,
	}
}

// Start connects to the session bus and exports the tone service.
func (s *ToneService) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: toneMethods(),
				Signals: toneSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", s.busName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus tone service started", "name", s.busName, "path", DBusPath)
	return nil
}

// Stop waits for in-flight alerts and releases the bus name.
func (s *ToneService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		if err := conn.Export(nil, DBusPath, DBusInterface); err != nil {
			s.logger.Warn("failed to unexport tone service", "error", err)
		}
	}

	s.inflight.Wait()

	if conn != nil {
		if _, err := conn.ReleaseName(s.busName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus tone service stopped")
	return nil
}

// Prime activates the audio output.
// D-Bus method: Prime() -> nothing
func (s *ToneService) Prime() *dbus.Error {
	s.logger.Debug("Prime called")
	s.player.Prime()
	return nil
}

// Play starts an alert in the background and returns immediately.
// A duration of 0 selects the configured default.
// D-Bus method: Play(u) -> nothing
func (s *ToneService) Play(durationMs uint32) *dbus.Error {
	d := time.Duration(durationMs) * time.Millisecond
	s.logger.Debug("Play called", "duration", d)

	if err := s.Trigger(d); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Trigger starts an alert of duration d in the background. Alerts started
// this way are waited for by Stop. It fails once the service is stopped.
func (s *ToneService) Trigger(d time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return ErrNotRunning
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.player.Play(d)
	}()
	return nil
}

// GetStatus returns the player status.
// D-Bus method: GetStatus() -> (bbttsx)
func (s *ToneService) GetStatus() (bool, bool, uint64, uint64, string, int64, *dbus.Error) {
	st := statusFromAudio(s.player.Status())
	return st.Primed, st.Playing, st.Played, st.Dropped, st.LastID, st.lastPlayedUnix(), nil
}

// Wait blocks until every background Play has finished.
func (s *ToneService) Wait() {
	s.inflight.Wait()
}
