package wm

import (
	"regexp"

	"github.com/google/uuid"
)

var uuidShape = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// NormalizeWindowID reduces a window identifier to the brace-wrapped
// UUID form kdotool expects. Identifiers can arrive decorated, e.g. the
// KRunner window surface hands out "0_{uuid}" strings; the decorated and
// raw forms are not interchangeable, so every id crossing the adapter
// boundary goes through here. Identifiers with no UUID-shaped substring
// are returned unchanged.
func NormalizeWindowID(id string) string {
	m := uuidShape.FindString(id)
	if m == "" {
		return id
	}
	if _, err := uuid.Parse(m); err != nil {
		return id
	}
	return "{" + m + "}"
}
