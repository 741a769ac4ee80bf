package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/ipc"
	"github.com/eraxe/kayland/internal/kwin"
	"github.com/eraxe/kayland/internal/logging"
	"github.com/eraxe/kayland/internal/matcher"
	"github.com/eraxe/kayland/internal/output"
	"github.com/eraxe/kayland/internal/registry"
	"github.com/eraxe/kayland/internal/service"
	"github.com/eraxe/kayland/internal/settings"
	"github.com/eraxe/kayland/internal/toggle"
	"github.com/eraxe/kayland/internal/wm"
)

var (
	verbose bool

	addName    string
	addPattern string
	addCommand string
	addAliases []string

	editName    string
	editPattern string
	editCommand string
	editAliases []string

	copyName string

	shortcutDescription string

	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func printSuccess(msg string) { successColor.Println(msg) }
func printError(msg string)   { errorColor.Fprintln(os.Stderr, msg) }
func printInfo(msg string)    { infoColor.Println(msg) }

// buildLogger reads log_level from the settings document and opens the
// file-backed logger. Logging problems never stop the CLI.
func buildLogger() (zerolog.Logger, io.Closer) {
	lvl := zerolog.InfoLevel
	if dir, err := registry.DefaultDir(); err == nil {
		if m, err := settings.Load(dir); err == nil {
			lvl = logging.ParseLevel(settings.String(m, "log_level", "info"))
		}
	}
	log, closer, err := logging.New(lvl)
	if err != nil {
		return zerolog.Nop(), nil
	}
	return log, closer
}

func openRegistry(log zerolog.Logger) (*registry.Registry, error) {
	dir, err := registry.DefaultDir()
	if err != nil {
		return nil, err
	}
	var notifier registry.Notifier
	if sock, err := ipc.SocketPath(); err == nil {
		notifier = ipc.NewReloadNotifier(sock, log)
	}
	return registry.Open(dir, notifier, log)
}

// buildEngine constructs the toggle engine. kdotool being missing is
// fatal; the KWin introspection surface is optional and the matcher
// falls back to plain searches without it.
func buildEngine(log zerolog.Logger) (*toggle.Engine, error) {
	adapter, err := wm.NewKdotool(log)
	if err != nil {
		return nil, err
	}
	var intro matcher.Introspector
	if in, err := kwin.New(log); err == nil {
		intro = in
	} else {
		log.Debug().Err(err).Msg("KWin introspection unavailable, using search fallback only")
	}
	return toggle.New(adapter, matcher.New(adapter, intro, log), log), nil
}

func resolveApp(reg *registry.Registry, ref string) (registry.Application, error) {
	app, ok := service.Resolve(reg, ref)
	if !ok {
		return registry.Application{}, fmt.Errorf("no application found for %q", ref)
	}
	return app, nil
}

var rootCmd = &cobra.Command{
	Use:   "kayland",
	Short: "Window toggler for KDE Plasma on Wayland",
	Long: `Kayland toggles user-defined applications: it activates a matching
window, minimizes it when already focused, or launches the application
when no window matches.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <alias|id|name>",
	Short: "Toggle an application's window in-process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}

		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		app, err := resolveApp(reg, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}
		engine, err := buildEngine(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		res := engine.Toggle(app.ClassPattern, app.Command)
		fmt.Println(res.Message)
		if !res.Success {
			return fmt.Errorf("toggle failed")
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <alias|id|name>",
	Short: "Toggle via the running service, falling back to in-process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sock, err := ipc.SocketPath(); err == nil {
			if resp, err := ipc.Send(sock, ipc.Request{Command: ipc.CmdLaunch, Argument: args[0]}); err == nil {
				if resp.OK {
					printSuccess(resp.Message)
					return nil
				}
				printError(resp.Message)
				return fmt.Errorf("toggle failed")
			}
		}

		// No service listening; do the toggle ourselves.
		return toggleCmd.RunE(cmd, args)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		apps := reg.Apps()
		if len(apps) == 0 {
			printInfo("No applications defined. Use 'kayland add' to add one.")
			return nil
		}
		output.PrintAppsTable(apps, verbose)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an application definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		app, err := reg.Create(addName, addPattern, addCommand, addAliases)
		if err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Added application %q (%s)", app.Name, app.ID))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <alias|id|name>",
	Short: "Edit an application definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		app, err := resolveApp(reg, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		var upd registry.AppUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &editName
		}
		if cmd.Flags().Changed("pattern") {
			upd.ClassPattern = &editPattern
		}
		if cmd.Flags().Changed("command") {
			upd.Command = &editCommand
		}
		if cmd.Flags().Changed("alias") {
			upd.Aliases = &editAliases
		}

		updated, err := reg.Update(app.ID, upd)
		if err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Updated application %q", updated.Name))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <alias|id|name>",
	Short: "Remove an application and its shortcuts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		app, err := resolveApp(reg, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		if err := service.DeleteApplication(reg, app.ID); err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Removed application %q", app.Name))
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <alias|id|name>",
	Short: "Duplicate an application definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		app, err := resolveApp(reg, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		dup, err := reg.Copy(app.ID, copyName)
		if err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Copied %q to %q (%s)", app.Name, dup.Name, dup.ID))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import application definitions from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		// Accept either the apps.json envelope or a bare array.
		var doc struct {
			Apps []registry.Application `json:"apps"`
		}
		var records []registry.Application
		if err := json.Unmarshal(data, &doc); err == nil && doc.Apps != nil {
			records = doc.Apps
		} else if err := json.Unmarshal(data, &records); err != nil {
			printError(fmt.Sprintf("failed to parse %s: %v", args[0], err))
			return err
		}

		count := reg.Import(records)
		printSuccess(fmt.Sprintf("Imported %d application(s)", count))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export application definitions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		if len(args) == 1 {
			if err := reg.ExportTo(args[0]); err != nil {
				printError(err.Error())
				return err
			}
			printSuccess(fmt.Sprintf("Exported %d application(s) to %s", len(reg.Apps()), args[0]))
			return nil
		}

		data, err := json.MarshalIndent(struct {
			Apps []registry.Application `json:"apps"`
		}{reg.Export()}, "", "  ")
		if err != nil {
			printError(err.Error())
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var shortcutCmd = &cobra.Command{
	Use:   "shortcut",
	Short: "Manage keyboard shortcut bindings",
}

var shortcutAddCmd = &cobra.Command{
	Use:   "add <alias|id|name> <key>",
	Short: "Bind a key combination to an application",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		app, err := resolveApp(reg, args[0])
		if err != nil {
			printError(err.Error())
			return err
		}

		sc, err := reg.AddShortcut(app.ID, args[1], shortcutDescription)
		if err != nil {
			printError(err.Error())
			return err
		}
		printSuccess(fmt.Sprintf("Bound %s to %q", sc.Key, app.Name))
		return nil
	},
}

var shortcutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shortcut bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		shortcuts := reg.Shortcuts()
		if len(shortcuts) == 0 {
			printInfo("No shortcuts defined.")
			return nil
		}
		output.PrintShortcutsTable(shortcuts, reg.Apps())
		return nil
	},
}

var shortcutRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a shortcut binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}
		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}

		if err := reg.RemoveShortcut(args[0]); err != nil {
			printError(err.Error())
			return err
		}
		printSuccess("Removed shortcut")
		return nil
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run or control the background service",
}

var serviceRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background service in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}

		reg, err := openRegistry(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		engine, err := buildEngine(log)
		if err != nil {
			printError(err.Error())
			return err
		}
		sock, err := ipc.SocketPath()
		if err != nil {
			printError(err.Error())
			return err
		}

		svc := service.New(reg, engine, sock, log)
		defer svc.Close()
		printInfo(fmt.Sprintf("Listening on %s", sock))
		return svc.Run()
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the kayland service",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closer := buildLogger()
		if closer != nil {
			defer closer.Close()
		}

		// Prefer asking the service itself; fall back to systemd.
		if sock, err := ipc.SocketPath(); err == nil {
			if resp, err := ipc.Send(sock, ipc.Request{Command: ipc.CmdStatus}); err == nil {
				printSuccess(resp.Message)
				return nil
			}
		}

		sd := service.NewSystemd(log)
		if sd.IsActive() {
			printSuccess("Service is running")
		} else {
			printError("Service is not running")
		}
		fmt.Print(sd.Status())
		return nil
	},
}

func systemdActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer := buildLogger()
			if closer != nil {
				defer closer.Close()
			}
			sd := service.NewSystemd(log)
			var err error
			switch action {
			case "start":
				err = sd.Start()
			case "stop":
				err = sd.Stop()
			case "restart":
				err = sd.Restart()
			}
			if err != nil {
				printError(err.Error())
				return err
			}
			printSuccess(fmt.Sprintf("Service %s successful", action))
			return nil
		},
	}
}

func init() {
	listCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show commands and ids")

	addCmd.Flags().StringVar(&addName, "name", "", "display name")
	addCmd.Flags().StringVar(&addPattern, "pattern", "", "window class pattern (regex)")
	addCmd.Flags().StringVar(&addCommand, "command", "", "launch command")
	addCmd.Flags().StringArrayVar(&addAliases, "alias", nil, "lookup alias (repeatable)")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("pattern")
	addCmd.MarkFlagRequired("command")

	editCmd.Flags().StringVar(&editName, "name", "", "display name")
	editCmd.Flags().StringVar(&editPattern, "pattern", "", "window class pattern (regex)")
	editCmd.Flags().StringVar(&editCommand, "command", "", "launch command")
	editCmd.Flags().StringArrayVar(&editAliases, "alias", nil, "lookup alias (repeatable)")

	copyCmd.Flags().StringVar(&copyName, "name", "", "name for the copy")

	shortcutAddCmd.Flags().StringVar(&shortcutDescription, "description", "", "free-text description")

	shortcutCmd.AddCommand(shortcutAddCmd, shortcutListCmd, shortcutRemoveCmd)
	serviceCmd.AddCommand(
		serviceRunCmd,
		serviceStatusCmd,
		systemdActionCmd("start", "Start the kayland service", "start"),
		systemdActionCmd("stop", "Stop the kayland service", "stop"),
		systemdActionCmd("restart", "Restart the kayland service", "restart"),
	)

	rootCmd.AddCommand(
		toggleCmd, runCmd, listCmd, addCmd, editCmd, removeCmd, copyCmd,
		importCmd, exportCmd, shortcutCmd, serviceCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
