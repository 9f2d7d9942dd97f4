package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

const (
	// DBusInterface is the tone service interface name.
	DBusInterface = "io.github.jmylchreest.AlertBeep"
	// DBusPath is the tone service object path.
	DBusPath = "/io/github/jmylchreest/AlertBeep"

	notificationsInterface = "org.freedesktop.Notifications"
)

// Notification urgency levels from the freedesktop.org notification specification.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Status is the service status as carried over the bus.
type Status struct {
	Primed     bool
	Playing    bool
	Played     uint64
	Dropped    uint64
	LastID     string
	LastPlayed time.Time
}

// statusFromAudio converts a player status for transport.
func statusFromAudio(s audio.Status) Status {
	return Status{
		Primed:     s.Primed,
		Playing:    s.Playing,
		Played:     s.Played,
		Dropped:    s.Dropped,
		LastID:     s.LastID,
		LastPlayed: s.LastPlayed,
	}
}

// lastPlayedUnix encodes LastPlayed as unix milliseconds, 0 when never played.
func (s Status) lastPlayedUnix() int64 {
	if s.LastPlayed.IsZero() {
		return 0
	}
	return s.LastPlayed.UnixMilli()
}

func unixToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Notification represents an observed org.freedesktop.Notifications.Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	if v, ok := n.Hints["suppress-sound"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// toneMethods returns the D-Bus method introspection data.
func toneMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Prime",
		},
		{
			Name: "Play",
			Args: []introspect.Arg{
				{Name: "duration_ms", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "GetStatus",
			Args: []introspect.Arg{
				{Name: "primed", Type: "b", Direction: "out"},
				{Name: "playing", Type: "b", Direction: "out"},
				{Name: "played", Type: "t", Direction: "out"},
				{Name: "dropped", Type: "t", Direction: "out"},
				{Name: "last_id", Type: "s", Direction: "out"},
				{Name: "last_played_ms", Type: "x", Direction: "out"},
			},
		},
	}
}

// toneSignals returns the D-Bus signal introspection data.
func toneSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "PlaybackFinished",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "duration_ms", Type: "u"},
			},
		},
	}
}
