package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// timestampHook adds timestamp at the end of each log event
type timestampHook struct{}

func (h timestampHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	e.Time("ts", time.Now())
}

// New builds the file-backed logger handed to every component at
// construction time. Nothing in the program reads a package-global
// logger; the caller threads this one through.
func New(level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	logDir := filepath.Join(os.Getenv("HOME"), ".local", "state", "kayland")
	os.MkdirAll(logDir, 0755)

	logPath := filepath.Join(logDir, "kayland.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	zerolog.MessageFieldName = "msg"

	logger := zerolog.New(f).Level(level).Hook(timestampHook{})
	return logger, f, nil
}

// ParseLevel maps a settings log_level string to a zerolog level,
// defaulting to info for unknown values.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
