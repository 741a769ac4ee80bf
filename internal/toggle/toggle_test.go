package toggle

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eraxe/kayland/internal/matcher"
	"github.com/eraxe/kayland/internal/wm"
)

type fakeAdapter struct {
	active     string
	calls      int
	activated  []string
	minimized  []string
	launched   []string
	activateOK bool
	minimizeOK bool
	launchOK   bool
}

func (f *fakeAdapter) ListWindows() []string { f.calls++; return nil }

func (f *fakeAdapter) ActiveWindow() (string, bool) {
	f.calls++
	return f.active, f.active != ""
}

func (f *fakeAdapter) WindowClass(id string) (string, bool)  { f.calls++; return "", false }
func (f *fakeAdapter) WindowTitle(id string) (string, bool)  { f.calls++; return "", false }
func (f *fakeAdapter) WindowState(id, prop string) bool      { f.calls++; return false }
func (f *fakeAdapter) SearchClass(pattern string) []string   { f.calls++; return nil }
func (f *fakeAdapter) SearchClassName(p string) []string     { f.calls++; return nil }

func (f *fakeAdapter) Activate(id string) bool {
	f.calls++
	f.activated = append(f.activated, id)
	return f.activateOK
}

func (f *fakeAdapter) Minimize(id string) bool {
	f.calls++
	f.minimized = append(f.minimized, id)
	return f.minimizeOK
}

func (f *fakeAdapter) Launch(command string) bool {
	f.calls++
	f.launched = append(f.launched, command)
	return f.launchOK
}

type fakeIntro struct {
	windows []wm.WindowInfo
}

func (f *fakeIntro) Windows() ([]wm.WindowInfo, error) {
	return f.windows, nil
}

func newEngine(adapter *fakeAdapter, intro matcher.Introspector) *Engine {
	return New(adapter, matcher.New(adapter, intro, zerolog.Nop()), zerolog.Nop())
}

const winID = "{dc80ff04-3245-4d9b-b9a8-1582640d39e1}"

func TestToggleInvalidPatternFailsWithoutTouchingAdapter(t *testing.T) {
	adapter := &fakeAdapter{}
	engine := newEngine(adapter, &fakeIntro{})

	res := engine.Toggle("[unclosed", "konsole")
	if res.Success {
		t.Fatal("invalid pattern must fail")
	}
	if !strings.Contains(res.Message, "Invalid class pattern") {
		t.Errorf("message %q should mention the invalid pattern", res.Message)
	}
	if adapter.calls != 0 {
		t.Errorf("adapter was invoked %d times for an invalid pattern", adapter.calls)
	}
}

func TestToggleLaunchesWhenNothingMatches(t *testing.T) {
	adapter := &fakeAdapter{launchOK: true}
	engine := newEngine(adapter, &fakeIntro{})

	res := engine.Toggle("konsole", "konsole --profile dev")
	if !res.Success {
		t.Fatalf("launch should succeed, message: %s", res.Message)
	}
	if len(adapter.launched) != 1 {
		t.Fatalf("Launch called %d times, want exactly once", len(adapter.launched))
	}
	if adapter.launched[0] != "konsole --profile dev" {
		t.Errorf("Launch called with %q", adapter.launched[0])
	}
	if !strings.Contains(res.Message, "Launched application: konsole --profile dev") {
		t.Errorf("message %q should include the literal command", res.Message)
	}
}

func TestToggleLaunchFailureReported(t *testing.T) {
	adapter := &fakeAdapter{launchOK: false}
	engine := newEngine(adapter, &fakeIntro{})

	res := engine.Toggle("konsole", "konsole")
	if res.Success {
		t.Fatal("launch failure must surface as Success=false")
	}
	if !strings.Contains(res.Message, "Failed to launch application") {
		t.Errorf("message %q should report the launch failure", res.Message)
	}
	if len(adapter.launched) != 1 {
		t.Errorf("Launch called %d times, want exactly once", len(adapter.launched))
	}
}

func TestToggleMinimizesActiveMatch(t *testing.T) {
	adapter := &fakeAdapter{active: winID, minimizeOK: true}
	intro := &fakeIntro{windows: []wm.WindowInfo{{ID: winID, Class: "konsole"}}}
	engine := newEngine(adapter, intro)

	res := engine.Toggle("konsole", "konsole")
	if !res.Success {
		t.Fatalf("minimize should succeed, message: %s", res.Message)
	}
	if len(adapter.minimized) != 1 || adapter.minimized[0] != winID {
		t.Errorf("minimized = %v, want [%s]", adapter.minimized, winID)
	}
	if len(adapter.launched) != 0 || len(adapter.activated) != 0 {
		t.Error("only minimize should have been attempted")
	}
	if !strings.Contains(res.Message, "minimized") {
		t.Errorf("message %q should describe the minimize", res.Message)
	}
}

func TestToggleActivatesInactiveMatch(t *testing.T) {
	adapter := &fakeAdapter{activateOK: true}
	intro := &fakeIntro{windows: []wm.WindowInfo{{ID: winID, Class: "konsole"}}}
	engine := newEngine(adapter, intro)

	res := engine.Toggle("konsole", "konsole")
	if !res.Success {
		t.Fatalf("activate should succeed, message: %s", res.Message)
	}
	if len(adapter.activated) != 1 || adapter.activated[0] != winID {
		t.Errorf("activated = %v, want [%s]", adapter.activated, winID)
	}
}

func TestToggleActivateFailureReported(t *testing.T) {
	adapter := &fakeAdapter{activateOK: false}
	intro := &fakeIntro{windows: []wm.WindowInfo{{ID: winID, Class: "konsole"}}}
	engine := newEngine(adapter, intro)

	res := engine.Toggle("konsole", "konsole")
	if res.Success {
		t.Fatal("adapter failure must surface as Success=false")
	}
	if !strings.Contains(res.Message, "Failed to activate") {
		t.Errorf("message %q should report the activate failure", res.Message)
	}
}

func TestToggleTraceIsMultiLine(t *testing.T) {
	adapter := &fakeAdapter{launchOK: true}
	engine := newEngine(adapter, &fakeIntro{})

	res := engine.Toggle("konsole", "konsole")
	if !strings.Contains(res.Message, "\n") {
		t.Errorf("trace should be multi-line, got %q", res.Message)
	}
	if !strings.Contains(res.Message, `Searching for windows matching "konsole"`) {
		t.Errorf("trace %q should record what was searched", res.Message)
	}
}

// End to end: launch when absent, minimize when the window exists and
// is focused.
func TestToggleLaunchThenMinimizeScenario(t *testing.T) {
	adapter := &fakeAdapter{launchOK: true, minimizeOK: true}
	intro := &fakeIntro{}
	engine := newEngine(adapter, intro)

	res := engine.Toggle("konsole", "konsole")
	if !res.Success {
		t.Fatalf("first toggle should launch, message: %s", res.Message)
	}
	if len(adapter.launched) != 1 || adapter.launched[0] != "konsole" {
		t.Fatalf("launched = %v, want [konsole]", adapter.launched)
	}

	// The window now exists and is focused.
	intro.windows = []wm.WindowInfo{{ID: winID, Class: "konsole"}}
	adapter.active = winID

	res = engine.Toggle("konsole", "konsole")
	if !res.Success {
		t.Fatalf("second toggle should minimize, message: %s", res.Message)
	}
	if len(adapter.minimized) != 1 || adapter.minimized[0] != winID {
		t.Errorf("minimized = %v, want [%s]", adapter.minimized, winID)
	}
	if len(adapter.launched) != 1 {
		t.Errorf("no second launch expected, launched = %v", adapter.launched)
	}
}
