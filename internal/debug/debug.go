// Package debug provides the file-backed logger. The TUI owns the terminal,
// so logs never go to stdout.
package debug

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// GetLogger returns a singleton slog logger writing to the user cache dir. If
// the log file cannot be opened, logging is disabled rather than fatal.
func GetLogger() *slog.Logger {
	once.Do(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))

		dir, err := os.UserCacheDir()
		if err != nil {
			return
		}
		if err := os.MkdirAll(filepath.Join(dir, "termchat"), 0755); err != nil {
			return
		}
		path := filepath.Join(dir, "termchat", "debug.log")
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return
		}
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	})
	return logger
}
