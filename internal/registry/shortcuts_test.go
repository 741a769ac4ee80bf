package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify() { n.calls++ }

func TestAddShortcutValidation(t *testing.T) {
	r := newRegistry(t)
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")

	tests := []struct {
		name  string
		appID string
		key   string
		ok    bool
	}{
		{"simple", app.ID, "alt+t", true},
		{"case folded on the way in", app.ID, "Meta+1", true},
		{"bad characters", app.ID, "ctrl-alt-del", false},
		{"spaces", app.ID, "alt + b", false},
		{"empty", app.ID, "", false},
		{"missing app", "no-such-app", "alt+x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := r.AddShortcut(tt.appID, tt.key, "")
			if tt.ok {
				if err != nil {
					t.Fatalf("AddShortcut(%q) error: %v", tt.key, err)
				}
				if sc.Key != strings.ToLower(tt.key) {
					t.Errorf("Key = %q, want folded %q", sc.Key, strings.ToLower(tt.key))
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("AddShortcut(%q) error = %v, want ErrValidation", tt.key, err)
			}
		})
	}
}

func TestShortcutKeysAreCaseInsensitivelyUnique(t *testing.T) {
	r := newRegistry(t)
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")

	if _, err := r.AddShortcut(app.ID, "alt+b", ""); err != nil {
		t.Fatalf("AddShortcut() error: %v", err)
	}
	if _, err := r.AddShortcut(app.ID, "Alt+B", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate key accepted, error = %v", err)
	}
	if len(r.Shortcuts()) != 1 {
		t.Errorf("Shortcuts() = %d, want 1", len(r.Shortcuts()))
	}
}

func TestUpdateShortcut(t *testing.T) {
	r := newRegistry(t)
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")
	other := mustCreate(t, r, "Browser", "firefox", "firefox")
	sc, err := r.AddShortcut(app.ID, "alt+t", "terminal")
	if err != nil {
		t.Fatalf("AddShortcut() error: %v", err)
	}
	if _, err := r.AddShortcut(other.ID, "alt+b", ""); err != nil {
		t.Fatalf("AddShortcut() error: %v", err)
	}

	t.Run("rekey to own key is fine", func(t *testing.T) {
		key := "Alt+T"
		if _, err := r.UpdateShortcut(sc.ID, ShortcutUpdate{Key: &key}); err != nil {
			t.Errorf("rekeying to own key failed: %v", err)
		}
	})

	t.Run("rekey onto taken key fails", func(t *testing.T) {
		key := "alt+b"
		if _, err := r.UpdateShortcut(sc.ID, ShortcutUpdate{Key: &key}); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("repoint to missing app fails", func(t *testing.T) {
		appID := "no-such-app"
		if _, err := r.UpdateShortcut(sc.ID, ShortcutUpdate{AppID: &appID}); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("description only", func(t *testing.T) {
		desc := "my terminal"
		got, err := r.UpdateShortcut(sc.ID, ShortcutUpdate{Description: &desc})
		if err != nil {
			t.Fatalf("UpdateShortcut() error: %v", err)
		}
		if got.Description != desc || got.Key != "alt+t" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("missing shortcut", func(t *testing.T) {
		if _, err := r.UpdateShortcut("missing", ShortcutUpdate{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestRemoveShortcut(t *testing.T) {
	r := newRegistry(t)
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")
	sc, _ := r.AddShortcut(app.ID, "alt+t", "")

	if err := r.RemoveShortcut(sc.ID); err != nil {
		t.Fatalf("RemoveShortcut() error: %v", err)
	}
	if len(r.Shortcuts()) != 0 {
		t.Error("shortcut not removed")
	}
	if err := r.RemoveShortcut(sc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove = %v, want ErrNotFound", err)
	}
}

func TestShortcutMutationsFireNotifier(t *testing.T) {
	n := &countingNotifier{}
	r, err := Open(t.TempDir(), n, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")
	if n.calls != 0 {
		t.Errorf("app mutations must not notify, calls = %d", n.calls)
	}

	sc, _ := r.AddShortcut(app.ID, "alt+t", "")
	desc := "x"
	r.UpdateShortcut(sc.ID, ShortcutUpdate{Description: &desc})
	r.RemoveShortcut(sc.ID)

	if n.calls != 3 {
		t.Errorf("notifier fired %d times, want 3 (add, update, remove)", n.calls)
	}
}

func TestShortcutsFor(t *testing.T) {
	r := newRegistry(t)
	app := mustCreate(t, r, "Terminal", "konsole", "konsole")
	other := mustCreate(t, r, "Browser", "firefox", "firefox")
	r.AddShortcut(app.ID, "alt+t", "")
	r.AddShortcut(app.ID, "alt+0", "")
	r.AddShortcut(other.ID, "alt+b", "")

	if got := r.ShortcutsFor(app.ID); len(got) != 2 {
		t.Errorf("ShortcutsFor() = %d, want 2", len(got))
	}
}
