// Package registry owns the persisted application definitions and
// keyboard-shortcut bindings, stored as two JSON documents under the
// per-user config directory.
package registry

import "errors"

// ErrValidation wraps every rejected mutation: empty name, bad pattern,
// bad shortcut key, duplicate key, missing app reference.
var ErrValidation = errors.New("validation error")

// ErrNotFound is returned when an id does not resolve.
var ErrNotFound = errors.New("not found")

// Application is one managed window/launch target.
type Application struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ClassPattern string   `json:"class_pattern"`
	Command      string   `json:"command"`
	Aliases      []string `json:"aliases"`
	DesktopFile  string   `json:"desktop_file,omitempty"`
	ScriptPath   string   `json:"script_path,omitempty"`
}

// Shortcut binds a key combination to one application.
type Shortcut struct {
	ID          string `json:"id"`
	AppID       string `json:"app_id"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// AppUpdate is a partial update; nil fields are left untouched.
type AppUpdate struct {
	Name         *string
	ClassPattern *string
	Command      *string
	Aliases      *[]string
}

// ShortcutUpdate is a partial update; nil fields are left untouched.
type ShortcutUpdate struct {
	AppID       *string
	Key         *string
	Description *string
}

// Notifier is the optional capability the registry uses to tell a
// running background service about shortcut changes. Implementations
// must swallow their own failures; a missing service is normal.
type Notifier interface {
	Notify()
}
