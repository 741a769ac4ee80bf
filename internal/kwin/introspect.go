// Package kwin talks to the KWin window runner over the session bus.
// It is the richer introspection surface the matcher's primary strategy
// scans; environments without it fall back to plain kdotool searches.
package kwin

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/eraxe/kayland/internal/wm"
)

const (
	kwinService       = "org.kde.KWin"
	windowsRunnerPath = "/WindowsRunner"
	krunnerInterface  = "org.kde.krunner1"
)

// Introspector enumerates windows via the KRunner WindowsRunner plugin.
type Introspector struct {
	conn *dbus.Conn
	log  zerolog.Logger
}

// New connects to the session bus and checks that KWin owns its
// well-known name. A failed construction is not fatal to callers: the
// matcher simply skips the primary strategy.
func New(log zerolog.Logger) (*Introspector, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var owned bool
	if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, kwinService).Store(&owned); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to query bus names: %w", err)
	}
	if !owned {
		conn.Close()
		return nil, fmt.Errorf("%s not present on session bus", kwinService)
	}

	return &Introspector{
		conn: conn,
		log:  log.With().Str("component", "kwin").Logger(),
	}, nil
}

// Close releases the bus connection.
func (in *Introspector) Close() error {
	return in.conn.Close()
}

// Windows returns every window KWin reports, with title and class per
// entry. The Match method takes a query string; the empty query returns
// the full window set. Ids come back decorated, e.g. "0_{uuid}".
func (in *Introspector) Windows() ([]wm.WindowInfo, error) {
	obj := in.conn.Object(kwinService, windowsRunnerPath)

	// D-Bus signature a(sssida{sv}): id, text, iconName, type,
	// relevance, properties.
	var rawMatches [][]interface{}
	if err := obj.Call(krunnerInterface+".Match", 0, "").Store(&rawMatches); err != nil {
		return nil, fmt.Errorf("WindowsRunner Match failed: %w", err)
	}

	windows := make([]wm.WindowInfo, 0, len(rawMatches))
	for _, raw := range rawMatches {
		if len(raw) < 6 {
			continue
		}

		id, ok := raw[0].(string)
		if !ok {
			continue
		}
		title, _ := raw[1].(string)
		class, _ := raw[2].(string)

		resource := ""
		if props, ok := raw[5].(map[string]dbus.Variant); ok {
			if v, ok := props["resourceName"]; ok {
				v.Store(&resource)
			}
		}

		if title == "" && class == "" {
			continue
		}

		windows = append(windows, wm.WindowInfo{
			ID:       id,
			Class:    class,
			Resource: resource,
			Title:    title,
		})
	}

	in.log.Debug().Int("count", len(windows)).Msg("enumerated windows via WindowsRunner")
	return windows, nil
}
