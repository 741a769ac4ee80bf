package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// keyShape constrains normalized key combinations, e.g. "alt+b".
var keyShape = regexp.MustCompile(`^[a-z0-9+]+$`)

func (r *Registry) validateKey(key, selfID string) (string, error) {
	folded := strings.ToLower(key)
	if !keyShape.MatchString(folded) {
		return "", fmt.Errorf("%w: key %q must match [a-z0-9+]+", ErrValidation, key)
	}
	for _, s := range r.shortcuts {
		if s.ID != selfID && strings.EqualFold(s.Key, folded) {
			return "", fmt.Errorf("%w: key %q is already bound", ErrValidation, key)
		}
	}
	return folded, nil
}

// AddShortcut binds a key to an application. Keys are case-folded on
// the way in and must be unique across all shortcuts; the application
// must exist.
func (r *Registry) AddShortcut(appID, key, description string) (Shortcut, error) {
	if _, ok := r.Get(appID); !ok {
		return Shortcut{}, fmt.Errorf("%w: no application with id %s", ErrValidation, appID)
	}
	folded, err := r.validateKey(key, "")
	if err != nil {
		return Shortcut{}, err
	}

	s := Shortcut{
		ID:          uuid.New().String(),
		AppID:       appID,
		Key:         folded,
		Description: description,
	}
	r.shortcuts = append(r.shortcuts, s)
	if err := r.saveShortcuts(); err != nil {
		return s, err
	}
	r.notify()
	r.log.Info().Str("key", s.Key).Str("app_id", appID).Msg("added shortcut")
	return s, nil
}

// UpdateShortcut applies a partial update under the same rules as
// AddShortcut.
func (r *Registry) UpdateShortcut(id string, upd ShortcutUpdate) (Shortcut, error) {
	idx := -1
	for i, s := range r.shortcuts {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Shortcut{}, fmt.Errorf("%w: shortcut %s", ErrNotFound, id)
	}

	s := r.shortcuts[idx]
	if upd.AppID != nil {
		if _, ok := r.Get(*upd.AppID); !ok {
			return Shortcut{}, fmt.Errorf("%w: no application with id %s", ErrValidation, *upd.AppID)
		}
		s.AppID = *upd.AppID
	}
	if upd.Key != nil {
		folded, err := r.validateKey(*upd.Key, id)
		if err != nil {
			return Shortcut{}, err
		}
		s.Key = folded
	}
	if upd.Description != nil {
		s.Description = *upd.Description
	}

	r.shortcuts[idx] = s
	if err := r.saveShortcuts(); err != nil {
		return s, err
	}
	r.notify()
	return s, nil
}

// RemoveShortcut deletes a shortcut binding.
func (r *Registry) RemoveShortcut(id string) error {
	for i, s := range r.shortcuts {
		if s.ID == id {
			r.shortcuts = append(r.shortcuts[:i], r.shortcuts[i+1:]...)
			if err := r.saveShortcuts(); err != nil {
				return err
			}
			r.notify()
			return nil
		}
	}
	return fmt.Errorf("%w: shortcut %s", ErrNotFound, id)
}

// Shortcuts returns a copy of all shortcut bindings.
func (r *Registry) Shortcuts() []Shortcut {
	out := make([]Shortcut, len(r.shortcuts))
	copy(out, r.shortcuts)
	return out
}

// ShortcutByID returns the shortcut with the given id.
func (r *Registry) ShortcutByID(id string) (Shortcut, bool) {
	for _, s := range r.shortcuts {
		if s.ID == id {
			return s, true
		}
	}
	return Shortcut{}, false
}

// ShortcutsFor returns the shortcuts referencing an application.
func (r *Registry) ShortcutsFor(appID string) []Shortcut {
	var out []Shortcut
	for _, s := range r.shortcuts {
		if s.AppID == appID {
			out = append(out, s)
		}
	}
	return out
}

// notify tells a running service about the change, if a notifier was
// injected. Failures are the notifier's problem; nothing propagates
// back to the mutation.
func (r *Registry) notify() {
	if r.notifier != nil {
		r.notifier.Notify()
	}
}
