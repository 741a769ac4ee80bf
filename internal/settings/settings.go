// Package settings reads the flat settings document owned by the UI
// layer. The core treats it as opaque key-value data; only a couple of
// keys (log_level, confirm_delete) are ever looked at here.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads settings.json (or settings.yaml/.yml) from dir. A missing
// file yields an empty map, not an error.
func Load(dir string) (map[string]interface{}, error) {
	for _, name := range []string{"settings.json", "settings.yaml", "settings.yml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}

		out := map[string]interface{}{}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			if err := json.Unmarshal(data, &out); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", name, err)
			}
		default:
			if err := yaml.Unmarshal(data, &out); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", name, err)
			}
		}
		return out, nil
	}
	return map[string]interface{}{}, nil
}

// String returns a string-valued key or the default.
func String(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a bool-valued key or the default.
func Bool(m map[string]interface{}, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}
