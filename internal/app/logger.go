package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/chartsight/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger logs to stdout and, when LOG_FILE is set, also to a rotating
// file. The returned func closes the file.
func newLogger(cfg *config.Config) (*slog.Logger, func() error) {
	var out io.Writer = os.Stdout
	closeFn := func() error { return nil }

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = file.Close
	}

	logger := slog.New(newLogHandler(cfg, out))

	slog.SetDefault(logger)
	return logger, closeFn
}

// newLogHandler writes JSON in production and text otherwise.
func newLogHandler(cfg *config.Config, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProduction() {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}
