// Package ipc implements the colon-delimited request/response protocol
// on the per-user unix socket, so short-lived CLI invocations can
// coordinate with a long-running background service.
package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported commands.
const (
	CmdLaunch = "launch"
	CmdStatus = "status"
	CmdReload = "reload"
)

const (
	okPrefix  = "OK: "
	errPrefix = "ERROR: "
)

// SocketPath returns the well-known per-user socket path.
func SocketPath() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(cache, "kayland", "kayland.sock"), nil
}

// Request is one wire request, "<command>:<argument>". The argument may
// be empty; the colon is mandatory.
type Request struct {
	Command  string
	Argument string
}

func (r Request) String() string {
	return r.Command + ":" + r.Argument
}

// ParseRequest splits a wire request at the first colon. A request with
// no colon is malformed.
func ParseRequest(line string) (Request, error) {
	cmd, arg, found := strings.Cut(strings.TrimSpace(line), ":")
	if !found {
		return Request{}, fmt.Errorf("invalid command format")
	}
	return Request{Command: cmd, Argument: arg}, nil
}

// Response is a single line prefixed "OK: " or "ERROR: ".
type Response struct {
	OK      bool
	Message string
}

func (r Response) String() string {
	if r.OK {
		return okPrefix + r.Message
	}
	return errPrefix + r.Message
}

// OK builds a success response.
func OK(format string, args ...interface{}) Response {
	return Response{OK: true, Message: fmt.Sprintf(format, args...)}
}

// Error builds a failure response.
func Error(format string, args ...interface{}) Response {
	return Response{OK: false, Message: fmt.Sprintf(format, args...)}
}

// ParseResponse classifies a wire response by its prefix. Anything
// without a known prefix is treated as an error message verbatim.
func ParseResponse(line string) Response {
	line = strings.TrimRight(line, "\x00\r\n")
	if strings.HasPrefix(line, okPrefix) {
		return Response{OK: true, Message: strings.TrimPrefix(line, okPrefix)}
	}
	if strings.HasPrefix(line, errPrefix) {
		return Response{OK: false, Message: strings.TrimPrefix(line, errPrefix)}
	}
	return Response{OK: false, Message: line}
}
