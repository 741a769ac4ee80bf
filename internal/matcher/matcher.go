// Package matcher decides which window, if any, a class pattern refers
// to, and what the toggle should do about it.
package matcher

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eraxe/kayland/internal/wm"
)

// Decision is the three-way outcome of a match.
type Decision int

const (
	// DecideLaunch means no window matched; the application should be
	// started.
	DecideLaunch Decision = iota
	// DecideActivate means an inactive window matched and should be
	// focused.
	DecideActivate
	// DecideMinimize means the matching window is already focused and
	// should be minimized.
	DecideMinimize
)

func (d Decision) String() string {
	switch d {
	case DecideActivate:
		return "activate"
	case DecideMinimize:
		return "minimize"
	default:
		return "launch"
	}
}

// Candidate is one window that matched the pattern, with the metadata
// recorded for diagnostics.
type Candidate struct {
	ID           string
	Class        string
	Resource     string
	Title        string
	Active       bool
	MatchedField string
}

// Result carries the disambiguated decision. Window is nil for launch
// decisions; Strategy names the scan that produced the candidates.
type Result struct {
	Decision   Decision
	Window     *Candidate
	Candidates []Candidate
	Strategy   string
}

// Introspector is the richer enumeration surface scanned by the primary
// strategy (the KWin window runner in production).
type Introspector interface {
	Windows() ([]wm.WindowInfo, error)
}

// Matcher runs an ordered list of search strategies and applies the
// disambiguation policy to the first non-empty candidate set.
type Matcher struct {
	adapter wm.Adapter
	intro   Introspector
	log     zerolog.Logger
}

// New builds a matcher. intro may be nil, in which case only the
// adapter-based fallback strategy runs.
func New(adapter wm.Adapter, intro Introspector, log zerolog.Logger) *Matcher {
	return &Matcher{
		adapter: adapter,
		intro:   intro,
		log:     log.With().Str("component", "matcher").Logger(),
	}
}

type strategy struct {
	name string
	scan func(pattern string, re *regexp.Regexp, activeID string) []Candidate
}

// Match scans the live window set for the pattern. The caller has
// already compiled re from pattern; strategies are full alternative
// scans tried in order, not merged per window.
func (m *Matcher) Match(pattern string, re *regexp.Regexp) Result {
	if strings.HasPrefix(pattern, "crx_") {
		// Browser app-mode windows carry pre-decorated class names;
		// matching still works, this is purely a diagnostic hint.
		m.log.Debug().Str("pattern", pattern).Msg("pattern looks like a browser app-mode window class")
	}

	activeID := ""
	if id, ok := m.adapter.ActiveWindow(); ok {
		activeID = wm.NormalizeWindowID(id)
	}

	strategies := []strategy{
		{"introspect", m.introspectScan},
		{"search", m.searchScan},
	}

	for _, s := range strategies {
		candidates := s.scan(pattern, re, activeID)
		if len(candidates) == 0 {
			continue
		}
		m.log.Debug().
			Str("strategy", s.name).
			Str("pattern", pattern).
			Int("candidates", len(candidates)).
			Msg("strategy produced candidates")
		return decide(candidates, s.name)
	}

	m.log.Debug().Str("pattern", pattern).Msg("no window matched")
	return Result{Decision: DecideLaunch}
}

// decide applies the disambiguation policy: the active candidate wins
// (there is at most one active window system-wide), otherwise the first
// candidate in enumeration order.
func decide(candidates []Candidate, strategyName string) Result {
	for i := range candidates {
		if candidates[i].Active {
			return Result{
				Decision:   DecideMinimize,
				Window:     &candidates[i],
				Candidates: candidates,
				Strategy:   strategyName,
			}
		}
	}
	return Result{
		Decision:   DecideActivate,
		Window:     &candidates[0],
		Candidates: candidates,
		Strategy:   strategyName,
	}
}

// introspectScan is the primary strategy: one full scan over the richer
// introspection surface, testing the pattern against class, resource
// name and title per window.
func (m *Matcher) introspectScan(pattern string, re *regexp.Regexp, activeID string) []Candidate {
	if m.intro == nil {
		return nil
	}

	windows, err := m.intro.Windows()
	if err != nil {
		m.log.Debug().Err(err).Msg("introspection surface unavailable")
		return nil
	}

	var candidates []Candidate
	for _, w := range windows {
		field := ""
		switch {
		case re.MatchString(w.Class):
			field = "class"
		case re.MatchString(w.Resource):
			field = "resource"
		case re.MatchString(w.Title):
			field = "title"
		default:
			continue
		}
		candidates = append(candidates, Candidate{
			ID:           w.ID,
			Class:        w.Class,
			Resource:     w.Resource,
			Title:        w.Title,
			Active:       activeID != "" && wm.NormalizeWindowID(w.ID) == activeID,
			MatchedField: field,
		})
	}
	return candidates
}

// searchScan is the fallback strategy: two narrower lookups through the
// basic adapter commands, by class and by resource name, unioned, with
// class/title fetched per id for reporting.
func (m *Matcher) searchScan(pattern string, re *regexp.Regexp, activeID string) []Candidate {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range m.adapter.SearchClass(pattern) {
		norm := wm.NormalizeWindowID(id)
		if !seen[norm] {
			seen[norm] = true
			ids = append(ids, id)
		}
	}
	for _, id := range m.adapter.SearchClassName(pattern) {
		norm := wm.NormalizeWindowID(id)
		if !seen[norm] {
			seen[norm] = true
			ids = append(ids, id)
		}
	}

	var candidates []Candidate
	for _, id := range ids {
		class, _ := m.adapter.WindowClass(id)
		title, _ := m.adapter.WindowTitle(id)
		candidates = append(candidates, Candidate{
			ID:           id,
			Class:        class,
			Title:        title,
			Active:       activeID != "" && wm.NormalizeWindowID(id) == activeID,
			MatchedField: "search",
		})
	}
	return candidates
}
