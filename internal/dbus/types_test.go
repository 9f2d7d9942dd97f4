package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: UrgencyLow,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: UrgencyCritical,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestSuppressSound(t *testing.T) {
	assert.False(t, (&Notification{}).SuppressSound())
	assert.True(t, (&Notification{Hints: map[string]dbus.Variant{
		"suppress-sound": dbus.MakeVariant(true),
	}}).SuppressSound())
	assert.False(t, (&Notification{Hints: map[string]dbus.Variant{
		"suppress-sound": dbus.MakeVariant("yes"),
	}}).SuppressSound())
}

func notifyMessage(body ...any) *dbus.Message {
	return &dbus.Message{
		Type: dbus.TypeMethodCall,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldInterface: dbus.MakeVariant(notificationsInterface),
			dbus.FieldMember:    dbus.MakeVariant("Notify"),
		},
		Body: body,
	}
}

func TestParseNotify(t *testing.T) {
	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}
	msg := notifyMessage("mail", uint32(0), "icon", "New mail", "hello", []string{"default", "Open"}, hints, int32(-1))

	n, ok := parseNotify(msg)
	require.True(t, ok)
	assert.Equal(t, "mail", n.AppName)
	assert.Equal(t, "New mail", n.Summary)
	assert.Equal(t, "hello", n.Body)
	assert.Equal(t, []string{"default", "Open"}, n.Actions)
	assert.Equal(t, int32(-1), n.ExpireTimeout)
	assert.Equal(t, UrgencyCritical, n.Urgency())
}

func TestParseNotify_Rejects(t *testing.T) {
	short := notifyMessage("mail", uint32(0))

	wrongType := notifyMessage(42, uint32(0), "", "", "", []string{}, map[string]dbus.Variant{}, int32(0))

	wrongMember := notifyMessage("mail", uint32(0), "", "", "", []string{}, map[string]dbus.Variant{}, int32(0))
	wrongMember.Headers[dbus.FieldMember] = dbus.MakeVariant("CloseNotification")

	signal := notifyMessage("mail", uint32(0), "", "", "", []string{}, map[string]dbus.Variant{}, int32(0))
	signal.Type = dbus.TypeSignal

	for name, msg := range map[string]*dbus.Message{
		"short body":   short,
		"wrong type":   wrongType,
		"wrong member": wrongMember,
		"signal":       signal,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := parseNotify(msg)
			assert.False(t, ok)
		})
	}
}

func TestStatusConversion(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	st := statusFromAudio(audio.Status{
		Primed:     true,
		Played:     3,
		Dropped:    1,
		LastID:     "01HZX",
		LastPlayed: now,
	})

	assert.True(t, st.Primed)
	assert.Equal(t, uint64(3), st.Played)
	assert.Equal(t, uint64(1), st.Dropped)
	assert.Equal(t, int64(1_700_000_000_123), st.lastPlayedUnix())
	assert.True(t, unixToTime(st.lastPlayedUnix()).Equal(now))

	assert.Equal(t, int64(0), Status{}.lastPlayedUnix())
	assert.True(t, unixToTime(0).IsZero())
}

func TestIntrospection(t *testing.T) {
	var names []string
	for _, m := range toneMethods() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Prime", "Play", "GetStatus"}, names)

	signals := toneSignals()
	require.Len(t, signals, 1)
	assert.Equal(t, "PlaybackFinished", signals[0].Name)
}
