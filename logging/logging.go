// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels accepted by ParseLevel.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q, should be one of %v", s, Levels)
	}
}

// Setup builds a text logger on stderr, also writing to a rotating file when
// file is not empty, and installs it as the slog and gg default. The returned
// closer flushes the file and is never nil.
func Setup(level, file string) (*slog.Logger, io.Closer, error) {
	return setup(os.Stderr, level, file)
}

func setup(w io.Writer, level, file string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	if file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		w = io.MultiWriter(w, lj)
		closer = lj
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
