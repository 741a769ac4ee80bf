package wm

import (
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/google/shlex"
	"golang.org/x/sys/unix"
)

// Launch starts the application described by a shell-style command line.
// The command is tokenized with quoting respected, argv[0] must resolve
// to an executable, and the child is spawned detached in its own session
// with the environment inherited. No spawn happens when argv[0] cannot
// be resolved.
func (k *Kdotool) Launch(command string) bool {
	args, err := shlex.Split(command)
	if err != nil {
		k.log.Error().Err(err).Str("command", command).Msg("failed to tokenize launch command")
		return false
	}
	if len(args) == 0 {
		k.log.Error().Str("command", command).Msg("empty launch command")
		return false
	}

	exe, ok := resolveExecutable(args[0])
	if !ok {
		k.log.Error().Str("executable", args[0]).Msg("launch executable not found")
		return false
	}

	cmd := exec.Command(exe, args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		k.log.Error().Err(err).Str("command", command).Msg("failed to launch application")
		return false
	}

	// Reap in the background; the caller never blocks on the child.
	go cmd.Wait()

	k.log.Info().Str("command", command).Int("pid", cmd.Process.Pid).Msg("launched application")
	return true
}

// resolveExecutable maps argv[0] to a runnable path: absolute paths must
// exist and carry the execute bit, anything else goes through PATH.
func resolveExecutable(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if err := unix.Access(name, unix.X_OK); err != nil {
			return "", false
		}
		return name, true
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}
