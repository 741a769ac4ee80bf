package registry

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registry is the durable store for applications and shortcuts. Every
// mutating operation validates first, persists the full collection
// synchronously, and (for shortcuts) fires the best-effort notifier.
type Registry struct {
	dir       string
	apps      []Application
	shortcuts []Shortcut
	notifier  Notifier
	log       zerolog.Logger
}

// Open loads both collections from dir, recovering from corrupt
// documents. notifier may be nil.
func Open(dir string, notifier Notifier, log zerolog.Logger) (*Registry, error) {
	r := &Registry{
		dir:      dir,
		notifier: notifier,
		log:      log.With().Str("component", "registry").Logger(),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads both documents from disk, discarding in-memory state.
// The running service calls this on a reload request.
func (r *Registry) Reload() error {
	var apps appsDoc
	if err := r.loadDocument(filepath.Join(r.dir, appsFile), &apps); err != nil {
		return err
	}
	var shortcuts shortcutsDoc
	if err := r.loadDocument(filepath.Join(r.dir, shortcutsFile), &shortcuts); err != nil {
		return err
	}
	r.apps = apps.Apps
	r.shortcuts = shortcuts.Shortcuts
	r.log.Debug().Int("apps", len(r.apps)).Int("shortcuts", len(r.shortcuts)).Msg("loaded registry")
	return nil
}

// Dir returns the config directory the registry persists into.
func (r *Registry) Dir() string {
	return r.dir
}

func validateApp(name, classPattern string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if _, err := regexp.Compile(classPattern); err != nil {
		return fmt.Errorf("%w: class pattern does not compile: %v", ErrValidation, err)
	}
	return nil
}

// Apps returns a copy of all application definitions.
func (r *Registry) Apps() []Application {
	out := make([]Application, len(r.apps))
	copy(out, r.apps)
	return out
}

// Get returns the application with the given id.
func (r *Registry) Get(id string) (Application, bool) {
	for _, app := range r.apps {
		if app.ID == id {
			return app, true
		}
	}
	return Application{}, false
}

// GetByName finds an application by display name, case-insensitively.
func (r *Registry) GetByName(name string) (Application, bool) {
	for _, app := range r.apps {
		if strings.EqualFold(app.Name, name) {
			return app, true
		}
	}
	return Application{}, false
}

// GetByAlias finds an application by alias (case-insensitive exact
// match), falling back to a case-insensitive substring match against
// names when no alias matches.
func (r *Registry) GetByAlias(alias string) (Application, bool) {
	for _, app := range r.apps {
		for _, a := range app.Aliases {
			if strings.EqualFold(a, alias) {
				return app, true
			}
		}
	}
	needle := strings.ToLower(alias)
	for _, app := range r.apps {
		if strings.Contains(strings.ToLower(app.Name), needle) {
			return app, true
		}
	}
	return Application{}, false
}

// Create validates and appends a new application, persisting before it
// returns.
func (r *Registry) Create(name, classPattern, command string, aliases []string) (Application, error) {
	if err := validateApp(name, classPattern); err != nil {
		return Application{}, err
	}
	if aliases == nil {
		aliases = []string{}
	}

	app := Application{
		ID:           uuid.New().String(),
		Name:         name,
		ClassPattern: classPattern,
		Command:      command,
		Aliases:      aliases,
	}
	r.apps = append(r.apps, app)
	if err := r.saveApps(); err != nil {
		return app, err
	}
	r.log.Info().Str("id", app.ID).Str("name", app.Name).Msg("created application")
	return app, nil
}

// Update applies a partial update, re-validating the resulting
// name/pattern combination before anything is persisted.
func (r *Registry) Update(id string, upd AppUpdate) (Application, error) {
	idx := r.appIndex(id)
	if idx < 0 {
		return Application{}, fmt.Errorf("%w: application %s", ErrNotFound, id)
	}

	app := r.apps[idx]
	if upd.Name != nil {
		app.Name = *upd.Name
	}
	if upd.ClassPattern != nil {
		app.ClassPattern = *upd.ClassPattern
	}
	if upd.Command != nil {
		app.Command = *upd.Command
	}
	if upd.Aliases != nil {
		app.Aliases = *upd.Aliases
	}

	if err := validateApp(app.Name, app.ClassPattern); err != nil {
		return Application{}, err
	}

	r.apps[idx] = app
	if err := r.saveApps(); err != nil {
		return app, err
	}
	return app, nil
}

// UpdateAttribute sets a single field unconditionally, bypassing
// validation. Used for provenance fields like desktop_file and
// script_path.
func (r *Registry) UpdateAttribute(id, key, value string) error {
	idx := r.appIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: application %s", ErrNotFound, id)
	}

	switch key {
	case "name":
		r.apps[idx].Name = value
	case "class_pattern":
		r.apps[idx].ClassPattern = value
	case "command":
		r.apps[idx].Command = value
	case "desktop_file":
		r.apps[idx].DesktopFile = value
	case "script_path":
		r.apps[idx].ScriptPath = value
	default:
		return fmt.Errorf("%w: unknown attribute %q", ErrValidation, key)
	}
	return r.saveApps()
}

// Delete removes an application. Shortcuts referencing it are NOT
// removed here; cascading is the orchestrating caller's job, one
// RemoveShortcut call per affected shortcut.
func (r *Registry) Delete(id string) error {
	idx := r.appIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: application %s", ErrNotFound, id)
	}
	r.apps = append(r.apps[:idx], r.apps[idx+1:]...)
	if err := r.saveApps(); err != nil {
		return err
	}
	r.log.Info().Str("id", id).Msg("deleted application")
	return nil
}

// Copy duplicates an application under a new id. Without an override
// the name gets a " (Copy)" suffix, and every alias a "_copy" suffix so
// alias lookup stays unambiguous.
func (r *Registry) Copy(id, newName string) (Application, error) {
	src, ok := r.Get(id)
	if !ok {
		return Application{}, fmt.Errorf("%w: application %s", ErrNotFound, id)
	}

	dup := src
	dup.ID = uuid.New().String()
	if newName != "" {
		dup.Name = newName
	} else {
		dup.Name = src.Name + " (Copy)"
	}
	dup.Aliases = make([]string, len(src.Aliases))
	for i, a := range src.Aliases {
		dup.Aliases[i] = a + "_copy"
	}

	r.apps = append(r.apps, dup)
	if err := r.saveApps(); err != nil {
		return dup, err
	}
	return dup, nil
}

// Import creates applications from the given records, skipping names
// that already exist (case-insensitive) and records that fail
// validation. Returns the number actually imported; one bad record
// never aborts the batch.
func (r *Registry) Import(records []Application) int {
	imported := 0
	for _, rec := range records {
		if _, exists := r.GetByName(rec.Name); exists {
			r.log.Debug().Str("name", rec.Name).Msg("import: name exists, skipping")
			continue
		}
		if err := validateApp(rec.Name, rec.ClassPattern); err != nil {
			r.log.Warn().Err(err).Str("name", rec.Name).Msg("import: skipping malformed record")
			continue
		}
		aliases := rec.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		r.apps = append(r.apps, Application{
			ID:           uuid.New().String(),
			Name:         rec.Name,
			ClassPattern: rec.ClassPattern,
			Command:      rec.Command,
			Aliases:      aliases,
			DesktopFile:  rec.DesktopFile,
			ScriptPath:   rec.ScriptPath,
		})
		imported++
	}
	if imported > 0 {
		if err := r.saveApps(); err != nil {
			r.log.Error().Err(err).Msg("import: save failed")
		}
	}
	r.log.Info().Int("imported", imported).Int("offered", len(records)).Msg("imported applications")
	return imported
}

// Export returns the in-memory collection.
func (r *Registry) Export() []Application {
	return r.Apps()
}

// ExportTo writes the full collection to the given path.
func (r *Registry) ExportTo(path string) error {
	return r.writeAtomic(path, appsDoc{Apps: r.apps})
}

func (r *Registry) appIndex(id string) int {
	for i, app := range r.apps {
		if app.ID == id {
			return i
		}
	}
	return -1
}
