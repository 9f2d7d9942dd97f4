// Package dbus exposes the alert tone player on the session bus.
// ToneService exports Prime, Play and GetStatus under the
// io.github.jmylchreest.AlertBeep interface and emits PlaybackFinished
// after each alert. Client calls a running service, and Monitor watches
// org.freedesktop.Notifications traffic so critical notifications can
// sound the alert.
package dbus
