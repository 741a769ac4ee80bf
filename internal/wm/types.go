package wm

// WindowInfo is one window as reported by an enumeration surface. The
// ID may be decorated (see NormalizeWindowID); Class, Resource and
// Title are the three fields patterns are matched against.
type WindowInfo struct {
	ID       string
	Class    string
	Resource string
	Title    string
}
