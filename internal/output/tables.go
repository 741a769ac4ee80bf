// Package output renders registry listings for the CLI.
package output

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/eraxe/kayland/internal/registry"
)

// PrintAppsTable prints the application definitions in a table.
func PrintAppsTable(apps []registry.Application, verbose bool) {
	table := tablewriter.NewWriter(os.Stdout)
	if verbose {
		table.Header("Name", "Aliases", "Class Pattern", "Command", "ID")
	} else {
		table.Header("Name", "Aliases", "Class Pattern")
	}

	for _, app := range apps {
		aliases := strings.Join(app.Aliases, ",")
		if verbose {
			table.Append(
				truncate(app.Name, 30),
				truncate(aliases, 30),
				truncate(app.ClassPattern, 30),
				truncate(app.Command, 40),
				app.ID,
			)
		} else {
			table.Append(
				truncate(app.Name, 30),
				truncate(aliases, 30),
				truncate(app.ClassPattern, 40),
			)
		}
	}

	table.Render()
}

// PrintShortcutsTable prints shortcut bindings with the owning
// application's name resolved where possible.
func PrintShortcutsTable(shortcuts []registry.Shortcut, apps []registry.Application) {
	names := make(map[string]string, len(apps))
	for _, app := range apps {
		names[app.ID] = app.Name
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("App", "Key", "Description", "ID")

	for _, sc := range shortcuts {
		name := names[sc.AppID]
		if name == "" {
			name = "(unknown: " + truncate(sc.AppID, 8) + ")"
		}
		table.Append(
			truncate(name, 30),
			sc.Key,
			truncate(sc.Description, 40),
			sc.ID,
		)
	}

	table.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
