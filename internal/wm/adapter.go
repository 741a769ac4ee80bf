package wm

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const toolName = "kdotool"

// idShape filters kdotool search output down to lines that look like
// window identifiers (bare or brace-wrapped UUIDs).
var idShape = regexp.MustCompile(`^\{?[a-zA-Z0-9-]+\}?$`)

// Adapter is the window-control surface the matcher and toggle engine
// consume. All operations fail softly; only construction of the real
// implementation can fail.
type Adapter interface {
	ListWindows() []string
	ActiveWindow() (string, bool)
	WindowClass(id string) (string, bool)
	WindowTitle(id string) (string, bool)
	WindowState(id, property string) bool
	SearchClass(pattern string) []string
	SearchClassName(pattern string) []string
	Activate(id string) bool
	Minimize(id string) bool
	Launch(command string) bool
}

// Kdotool shells out to the kdotool CLI for every operation. It keeps no
// in-memory window state; the window manager is the source of truth.
type Kdotool struct {
	log  zerolog.Logger
	path string
}

// NewKdotool verifies kdotool is on PATH. Its absence is a fatal
// precondition for the whole program, so this is the one place the
// adapter fails hard instead of soft.
func NewKdotool(log zerolog.Logger) (*Kdotool, error) {
	path, err := exec.LookPath(toolName)
	if err != nil {
		log.Error().Err(err).Msg("kdotool not found in PATH")
		return nil, fmt.Errorf("%s not found in PATH: %w", toolName, err)
	}

	k := &Kdotool{
		log:  log.With().Str("component", "wm").Logger(),
		path: path,
	}
	k.log.Debug().Str("path", path).Msg("found kdotool")
	return k, nil
}

// run executes kdotool with the given arguments and returns trimmed
// stdout plus whether the tool exited zero.
func (k *Kdotool) run(args ...string) (string, bool) {
	k.log.Debug().Strs("args", args).Msg("running kdotool")

	cmd := exec.Command(k.path, args...)
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		k.log.Error().Err(err).Strs("args", args).Str("stderr", stderr).Msg("kdotool command failed")
		return stderr, false
	}

	return strings.TrimSpace(string(out)), true
}

// ListWindows returns all window ids known to the compositor, or an
// empty list when the tool errors.
func (k *Kdotool) ListWindows() []string {
	out, ok := k.run("search", "--class", ".*")
	if !ok {
		return nil
	}
	return parseWindowIDs(out)
}

// ActiveWindow returns the focused window id, if any.
func (k *Kdotool) ActiveWindow() (string, bool) {
	out, ok := k.run("getactivewindow")
	if !ok || out == "" {
		return "", false
	}
	return out, true
}

// WindowClass returns the class name of a window.
func (k *Kdotool) WindowClass(id string) (string, bool) {
	out, ok := k.run("getwindowclassname", NormalizeWindowID(id))
	if !ok {
		return "", false
	}
	return out, true
}

// WindowTitle returns the current title of a window.
func (k *Kdotool) WindowTitle(id string) (string, bool) {
	out, ok := k.run("getwindowname", NormalizeWindowID(id))
	if !ok {
		return "", false
	}
	return out, true
}

// WindowState reports whether a window already has the given state
// property set. kdotool prints "is already set" on the debug stream when
// adding a property the window already carries.
func (k *Kdotool) WindowState(id, property string) bool {
	out, _ := k.run("windowstate", "--add", property, NormalizeWindowID(id), "--debug")
	return strings.Contains(out, "is already set")
}

// SearchClass returns ids of windows whose class matches the pattern.
func (k *Kdotool) SearchClass(pattern string) []string {
	out, ok := k.run("search", "--class", pattern)
	if !ok {
		return nil
	}
	return parseWindowIDs(out)
}

// SearchClassName returns ids of windows whose resource/instance name
// matches the pattern.
func (k *Kdotool) SearchClassName(pattern string) []string {
	out, ok := k.run("search", "--classname", pattern)
	if !ok {
		return nil
	}
	return parseWindowIDs(out)
}

// Activate focuses the window.
func (k *Kdotool) Activate(id string) bool {
	_, ok := k.run("windowactivate", NormalizeWindowID(id))
	return ok
}

// Minimize minimizes the window.
func (k *Kdotool) Minimize(id string) bool {
	_, ok := k.run("windowminimize", NormalizeWindowID(id))
	return ok
}

func parseWindowIDs(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idShape.MatchString(line) {
			ids = append(ids, line)
		}
	}
	return ids
}
