// Package toggle implements the three-way toggle policy: minimize a
// focused match, activate an unfocused one, launch when nothing
// matches.
package toggle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eraxe/kayland/internal/matcher"
	"github.com/eraxe/kayland/internal/wm"
)

// Result is the outcome of one toggle. Message is a multi-line trace of
// what was tried, what was found, and what action was taken; callers
// surface it directly, so it is part of the contract rather than
// incidental logging.
type Result struct {
	Message string
	Success bool
}

// Engine composes the matcher and the window-control adapter. It keeps
// no state between invocations; the window manager is the source of
// truth every time.
type Engine struct {
	adapter wm.Adapter
	matcher *matcher.Matcher
	log     zerolog.Logger
}

// New builds a toggle engine.
func New(adapter wm.Adapter, m *matcher.Matcher, log zerolog.Logger) *Engine {
	return &Engine{
		adapter: adapter,
		matcher: m,
		log:     log.With().Str("component", "toggle").Logger(),
	}
}

// Toggle finds a window for classPattern and minimizes, activates, or
// launches accordingly. The pattern must compile as a regular
// expression; matching is case-insensitive regex search.
func (e *Engine) Toggle(classPattern, command string) Result {
	var trace []string
	trace = append(trace, fmt.Sprintf("Searching for windows matching %q", classPattern))

	re, err := regexp.Compile("(?i)" + classPattern)
	if err != nil {
		e.log.Error().Err(err).Str("pattern", classPattern).Msg("invalid class pattern")
		trace = append(trace, fmt.Sprintf("Invalid class pattern %q: %v", classPattern, err))
		return Result{Message: strings.Join(trace, "\n"), Success: false}
	}

	res := e.matcher.Match(classPattern, re)
	if res.Strategy != "" {
		trace = append(trace, fmt.Sprintf("Strategy %q found %d matching window(s)", res.Strategy, len(res.Candidates)))
	} else {
		trace = append(trace, "No matching window found")
	}

	switch res.Decision {
	case matcher.DecideMinimize:
		win := res.Window
		trace = append(trace, fmt.Sprintf("Window %s (%s) is active", win.ID, win.Class))
		ok := e.adapter.Minimize(win.ID)
		if ok {
			trace = append(trace, fmt.Sprintf("Window %s minimized", win.ID))
		} else {
			trace = append(trace, fmt.Sprintf("Failed to minimize window %s", win.ID))
		}
		e.log.Info().Str("window", win.ID).Bool("success", ok).Msg("minimize")
		return Result{Message: strings.Join(trace, "\n"), Success: ok}

	case matcher.DecideActivate:
		win := res.Window
		trace = append(trace, fmt.Sprintf("Window %s (%s) matched on %s", win.ID, win.Class, win.MatchedField))
		ok := e.adapter.Activate(win.ID)
		if ok {
			trace = append(trace, fmt.Sprintf("Window %s activated", win.ID))
		} else {
			trace = append(trace, fmt.Sprintf("Failed to activate window %s", win.ID))
		}
		e.log.Info().Str("window", win.ID).Bool("success", ok).Msg("activate")
		return Result{Message: strings.Join(trace, "\n"), Success: ok}

	default:
		ok := e.adapter.Launch(command)
		if ok {
			trace = append(trace, fmt.Sprintf("Launched application: %s", command))
		} else {
			trace = append(trace, "Failed to launch application")
		}
		e.log.Info().Str("command", command).Bool("success", ok).Msg("launch")
		return Result{Message: strings.Join(trace, "\n"), Success: ok}
	}
}
