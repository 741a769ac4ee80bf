// Package service runs the long-lived background process that listens
// on the kayland socket, and the orchestration that spans registry and
// toggle engine.
package service

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/eraxe/kayland/internal/ipc"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/toggle"
)

// Service wires the registry and toggle engine behind the socket
// protocol.
type Service struct {
	reg    *registry.Registry
	engine *toggle.Engine
	srv    *ipc.Server
	log    zerolog.Logger
}

// New builds the background service on the given socket path.
func New(reg *registry.Registry, engine *toggle.Engine, socketPath string, log zerolog.Logger) *Service {
	s := &Service{
		reg:    reg,
		engine: engine,
		log:    log.With().Str("component", "service").Logger(),
	}
	s.srv = ipc.NewServer(socketPath, s.handle, log)
	return s
}

// Run blocks on the accept loop until Close.
func (s *Service) Run() error {
	return s.srv.Serve()
}

// Close stops the socket server.
func (s *Service) Close() error {
	return s.srv.Close()
}

func (s *Service) handle(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CmdLaunch:
		app, ok := Resolve(s.reg, req.Argument)
		if !ok {
			return ipc.Error("No application found for %q", req.Argument)
		}
		res := s.engine.Toggle(app.ClassPattern, app.Command)
		// The wire format is a single newline-free line; flatten the
		// toggle trace.
		msg := strings.ReplaceAll(res.Message, "\n", "; ")
		if res.Success {
			return ipc.OK("%s", msg)
		}
		return ipc.Error("%s", msg)

	case ipc.CmdStatus:
		return ipc.OK("Service is running")

	case ipc.CmdReload:
		if err := s.reg.Reload(); err != nil {
			s.log.Error().Err(err).Msg("reload failed")
			return ipc.Error("Failed to reload configuration: %v", err)
		}
		s.log.Info().Msg("configuration reloaded")
		return ipc.OK("Configuration reloaded")

	default:
		return ipc.Error("Unknown command: %s", req.Command)
	}
}

// Resolve maps a user-supplied reference to an application: exact id
// first, then alias (with its name-substring fallback).
func Resolve(reg *registry.Registry, ref string) (registry.Application, bool) {
	if app, ok := reg.Get(ref); ok {
		return app, true
	}
	return reg.GetByAlias(ref)
}

// DeleteApplication removes an application and cascades over its
// shortcuts. The registry itself never auto-cascades; this is the
// orchestrating caller doing one RemoveShortcut call per binding.
func DeleteApplication(reg *registry.Registry, id string) error {
	if err := reg.Delete(id); err != nil {
		return err
	}
	for _, sc := range reg.ShortcutsFor(id) {
		if err := reg.RemoveShortcut(sc.ID); err != nil {
			return err
		}
	}
	return nil
}
