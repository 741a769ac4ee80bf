package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Handler turns a parsed request into a response. Unknown commands are
// the handler's concern; malformed requests never reach it.
type Handler func(Request) Response

// Server owns the unix socket and services one connection at a time.
// Requests from short-lived CLI invocations are fire-and-forget, so a
// sequential accept loop is all that is needed.
type Server struct {
	path    string
	handler Handler
	log     zerolog.Logger
	ln      net.Listener
}

// NewServer prepares a server for the given socket path.
func NewServer(path string, handler Handler, log zerolog.Logger) *Server {
	return &Server{
		path:    path,
		handler: handler,
		log:     log.With().Str("component", "ipc").Logger(),
	}
}

// Listen unlinks any stale socket left by a crashed service and binds a
// fresh one.
func (s *Server) Listen() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to bind socket: %w", err)
	}
	s.ln = ln
	s.log.Info().Str("path", s.path).Msg("socket server listening")
	return nil
}

// Serve runs the blocking accept loop until Close. Each accepted
// connection is read once, responded to once, and closed before the
// next accept.
func (s *Server) Serve() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error().Err(err).Msg("accept failed")
			continue
		}
		s.handleConn(conn)
	}
}

// Close shuts the listener down and removes the socket file.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		s.log.Error().Err(err).Msg("failed to read request")
		return
	}

	raw := string(buf[:n])
	req, err := ParseRequest(raw)
	var resp Response
	if err != nil {
		s.log.Warn().Str("raw", raw).Msg("malformed request")
		resp = Error("Invalid command format")
	} else {
		s.log.Debug().Str("command", req.Command).Str("argument", req.Argument).Msg("request received")
		resp = s.handler(req)
	}

	if _, err := conn.Write([]byte(resp.String())); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}
