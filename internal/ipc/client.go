package ipc

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

const dialTimeout = 2 * time.Second

// Send connects to the socket, writes one request, and reads the single
// response line. The error is non-nil when no service is reachable;
// callers that only notify should treat that as normal.
func Send(path string, req Request) (Response, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return Response{}, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(dialTimeout))
	if _, err := conn.Write([]byte(req.String())); err != nil {
		return Response{}, fmt.Errorf("failed to write request: %w", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	return ParseResponse(string(buf[:n])), nil
}

// ReloadNotifier tells a running service to re-read its configuration.
// It implements registry.Notifier: connect, send, close, and silently
// skip when no service is listening.
type ReloadNotifier struct {
	path string
	log  zerolog.Logger
}

// NewReloadNotifier builds a notifier for the given socket path.
func NewReloadNotifier(path string, log zerolog.Logger) *ReloadNotifier {
	return &ReloadNotifier{
		path: path,
		log:  log.With().Str("component", "ipc").Logger(),
	}
}

// Notify is best-effort by contract; it never surfaces an error to the
// registry mutation that triggered it.
func (n *ReloadNotifier) Notify() {
	resp, err := Send(n.path, Request{Command: CmdReload})
	if err != nil {
		n.log.Debug().Err(err).Msg("no running service to notify")
		return
	}
	n.log.Debug().Bool("ok", resp.OK).Str("message", resp.Message).Msg("notified service")
}
