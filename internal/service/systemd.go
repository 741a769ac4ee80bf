package service

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

const unitName = "kayland.service"

// Systemd issues start/stop/status requests for the user unit. Unit
// file management itself is out of scope.
type Systemd struct {
	log zerolog.Logger
}

// NewSystemd builds the systemd wrapper.
func NewSystemd(log zerolog.Logger) *Systemd {
	return &Systemd{log: log.With().Str("component", "systemd").Logger()}
}

// IsActive reports whether the user unit is running.
func (s *Systemd) IsActive() bool {
	out, err := exec.Command("systemctl", "--user", "is-active", unitName).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "active"
}

// Status returns the full status text for display.
func (s *Systemd) Status() string {
	out, _ := exec.Command("systemctl", "--user", "status", unitName).CombinedOutput()
	return string(out)
}

// Start starts the user unit.
func (s *Systemd) Start() error { return s.manage("start") }

// Stop stops the user unit.
func (s *Systemd) Stop() error { return s.manage("stop") }

// Restart restarts the user unit.
func (s *Systemd) Restart() error { return s.manage("restart") }

func (s *Systemd) manage(action string) error {
	out, err := exec.Command("systemctl", "--user", action, unitName).CombinedOutput()
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Str("output", string(out)).Msg("systemctl failed")
		return fmt.Errorf("service %s failed: %s", action, strings.TrimSpace(string(out)))
	}
	s.log.Info().Str("action", action).Msg("systemctl succeeded")
	return nil
}
