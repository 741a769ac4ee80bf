package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appsFile      = "apps.json"
	shortcutsFile = "shortcuts.json"
)

// DefaultDir returns the per-user config directory the registry
// documents live in.
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(cfg, "kayland"), nil
}

// writeAtomic persists data with the rename-over pattern: marshal to a
// temp file in the same directory, keep the previous version as a .bak
// sidecar, then rename into place. A crash mid-write never leaves a
// half-written document behind.
func (r *Registry) writeAtomic(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Keep the outgoing version around for corruption recovery.
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
			r.log.Warn().Err(err).Str("path", path).Msg("failed to write backup sidecar")
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// loadDocument reads a JSON document into v. A missing file leaves v
// untouched. A parse failure falls back to the .bak sidecar; when both
// are unreadable the corrupt file is set aside with a .corrupted suffix
// and the collection starts empty. Corrupt config never crashes the
// program.
func (r *Registry) loadDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	r.log.Warn().Str("path", path).Msg("document is not valid JSON, trying backup")

	if bak, bakErr := os.ReadFile(path + ".bak"); bakErr == nil {
		if err := json.Unmarshal(bak, v); err == nil {
			r.log.Warn().Str("path", path).Msg("recovered collection from backup")
			return nil
		}
	}

	corrupted := path + ".corrupted"
	if err := os.Rename(path, corrupted); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("failed to set corrupt document aside")
	} else {
		r.log.Error().Str("path", path).Str("moved_to", corrupted).Msg("document corrupt, starting with empty collection")
	}
	return nil
}

type appsDoc struct {
	Apps []Application `json:"apps"`
}

type shortcutsDoc struct {
	Shortcuts []Shortcut `json:"shortcuts"`
}

// saveApps writes the full application collection. A failed save is
// logged and reported but the in-memory collection is kept as-is;
// callers treat it as "changes may be lost on restart".
func (r *Registry) saveApps() error {
	if err := r.writeAtomic(filepath.Join(r.dir, appsFile), appsDoc{Apps: r.apps}); err != nil {
		r.log.Error().Err(err).Msg("failed to save applications")
		return err
	}
	return nil
}

func (r *Registry) saveShortcuts() error {
	if err := r.writeAtomic(filepath.Join(r.dir, shortcutsFile), shortcutsDoc{Shortcuts: r.shortcuts}); err != nil {
		r.log.Error().Err(err).Msg("failed to save shortcuts")
		return err
	}
	return nil
}
