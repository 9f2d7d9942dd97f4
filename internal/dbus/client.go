package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

// Client calls a running tone service.
type Client struct {
	obj dbus.BusObject
}

// NewClient connects to the session bus and targets the service at busName.
func NewClient(busName string) (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{obj: conn.Object(busName, DBusPath)}, nil
}

// Prime asks the service to activate its audio output.
func (c *Client) Prime(ctx context.Context) error {
	if err := c.obj.CallWithContext(ctx, DBusInterface+".Prime", 0).Err; err != nil {
		return fmt.Errorf("failed to call Prime: %w", err)
	}
	return nil
}

// Play asks the service to play an alert of duration d (0 = service default).
func (c *Client) Play(ctx context.Context, d time.Duration) error {
	if err := c.obj.CallWithContext(ctx, DBusInterface+".Play", 0, durationMillis(d)).Err; err != nil {
		return fmt.Errorf("failed to call Play: %w", err)
	}
	return nil
}

// Status fetches the service status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var (
		st         Status
		lastPlayed int64
	)
	err := c.obj.CallWithContext(ctx, DBusInterface+".GetStatus", 0).
		Store(&st.Primed, &st.Playing, &st.Played, &st.Dropped, &st.LastID, &lastPlayed)
	if err != nil {
		return Status{}, fmt.Errorf("failed to call GetStatus: %w", err)
	}
	st.LastPlayed = unixToTime(lastPlayed)
	return st, nil
}

// durationMillis converts d for the wire. Durations are clamped to
// audio.MaxDuration and positive sub-millisecond values round up to 1ms,
// since 0 selects the service default.
func durationMillis(d time.Duration) uint32 {
	switch {
	case d <= 0:
		return 0
	case d > audio.MaxDuration:
		d = audio.MaxDuration
	case d < time.Millisecond:
		d = time.Millisecond
	}
	return uint32(d.Milliseconds())
}
