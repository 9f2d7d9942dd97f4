package dbus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

// NotificationHandler is called for every observed Notify call.
type NotificationHandler func(notification *Notification)

// Monitor passively observes D-Bus notification traffic without claiming ownership.
// This allows running alongside any notification daemon (like dunst).
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger

	onNotify NotificationHandler
}

// NewMonitor creates a new notification monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetNotifyHandler sets the callback for observed notifications.
func (m *Monitor) SetNotifyHandler(handler NotificationHandler) {
	m.onNotify = handler
}

// Start begins monitoring D-Bus for notification traffic.
// The monitor uses a private connection; a monitoring connection cannot
// be used for anything else.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.conn = conn

	rules := []string{
		"type='method_call',interface='" + notificationsInterface + "',member='Notify'",
	}

	err = conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor",
		0,
		rules,
		uint32(0),
	).Err
	if err != nil {
		// BecomeMonitor might not be available (older D-Bus versions)
		m.logger.Warn("BecomeMonitor not available, trying AddMatch", "error", err)
		return m.startWithAddMatch()
	}

	m.logger.Info("started D-Bus notification monitor using BecomeMonitor")
	go m.processMessages()
	return nil
}

// startWithAddMatch uses the older AddMatch API for eavesdropping.
func (m *Monitor) startWithAddMatch() error {
	matchRule := "type='method_call',interface='" + notificationsInterface + "',member='Notify',eavesdrop='true'"

	err := m.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err
	if err != nil {
		return fmt.Errorf("failed to add match rule (eavesdrop may require permissions): %w", err)
	}

	m.logger.Info("started D-Bus notification monitor using AddMatch with eavesdrop")
	go m.processMessages()
	return nil
}

// processMessages reads and dispatches D-Bus messages.
func (m *Monitor) processMessages() {
	ch := make(chan *dbus.Message, 100)
	m.conn.Eavesdrop(ch)

	for msg := range ch {
		if n, ok := parseNotify(msg); ok {
			m.logger.Debug("observed notification", "app", n.AppName, "urgency", n.Urgency())
			if m.onNotify != nil {
				m.onNotify(n)
			}
		}
	}
}

// parseNotify decodes a Notify method call.
// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
func parseNotify(msg *dbus.Message) (*Notification, bool) {
	if msg.Type != dbus.TypeMethodCall {
		return nil, false
	}
	if iface, ok := msg.Headers[dbus.FieldInterface]; !ok || iface.Value() != notificationsInterface {
		return nil, false
	}
	if member, ok := msg.Headers[dbus.FieldMember]; !ok || member.Value() != "Notify" {
		return nil, false
	}
	if len(msg.Body) < 8 {
		return nil, false
	}

	n := &Notification{}
	var ok bool
	if n.AppName, ok = msg.Body[0].(string); !ok {
		return nil, false
	}
	if n.ReplacesID, ok = msg.Body[1].(uint32); !ok {
		return nil, false
	}
	if n.AppIcon, ok = msg.Body[2].(string); !ok {
		return nil, false
	}
	if n.Summary, ok = msg.Body[3].(string); !ok {
		return nil, false
	}
	if n.Body, ok = msg.Body[4].(string); !ok {
		return nil, false
	}
	if actions, ok := msg.Body[5].([]string); ok {
		n.Actions = actions
	}
	if hints, ok := msg.Body[6].(map[string]dbus.Variant); ok {
		n.Hints = hints
	}
	if timeout, ok := msg.Body[7].(int32); ok {
		n.ExpireTimeout = timeout
	}
	return n, true
}

// Alerter starts an alert in the background.
type Alerter interface {
	Trigger(d time.Duration) error
}

// AlertOnUrgency returns a handler that triggers the alert for
// notifications at or above minUrgency, unless they carry the
// suppress-sound hint. Overlapping alerts are dropped by the player.
func AlertOnUrgency(alerter Alerter, minUrgency int, logger *slog.Logger) NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(n *Notification) {
		if n.Urgency() < minUrgency || n.SuppressSound() {
			return
		}
		logger.Debug("alerting for notification", "app", n.AppName, "summary", n.Summary)
		if err := alerter.Trigger(0); err != nil {
			logger.Debug("alert not started", "app", n.AppName, "error", err)
		}
	}
}

// Stop stops the monitor.
func (m *Monitor) Stop() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
