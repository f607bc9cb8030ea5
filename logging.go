package treedex

import (
	"io"
	"log/slog"
	"os"
)

// LoggingConfig controls the process-wide structured logger, mirroring
// the layered (level, destination) setup used elsewhere for slog-based
// logging in this codebase's surrounding tooling.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	FilePath  string `yaml:"file_path"`
	ToStderr  bool   `yaml:"to_stderr"`
}

// DefaultLoggingConfig logs at info level to stderr only.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", ToStderr: true}
}

// SetupLogging builds a JSON slog.Logger per cfg and returns it along
// with a cleanup func that closes any opened log file. Logging failures
// never propagate as engine errors: a logger is always returned, falling
// back to stderr-only if the file can't be opened.
func SetupLogging(cfg LoggingConfig) (*slog.Logger, func() error, error) {
	var writers []io.Writer
	cleanup := func() error { return nil }

	if cfg.ToStderr || cfg.FilePath == "" {
		writers = append(writers, os.Stderr)
	}

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			return logger, cleanup, err
		}
		writers = append(writers, f)
		cleanup = f.Close
	}

	var dest io.Writer = os.Stderr
	if len(writers) == 1 {
		dest = writers[0]
	} else if len(writers) > 1 {
		dest = io.MultiWriter(writers...)
	}

	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{Level: levelFromString(cfg.Level)})
	return slog.New(handler), cleanup, nil
}

func levelFromString(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
