package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"

	"github.com/diogo/chatty/internal/config"
)

const debugLogFile = "debug.log"

func debugEnabled() bool {
	return misc.Truthy(os.Getenv("DEBUG"))
}

func setupLogging() {
	ancli.SetupSlog()
	if debugEnabled() {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}

// tuiLogger returns a logger that stays off the terminal while the chat
// screen owns it. With DEBUG set records go to ~/.chatty/debug.log.
// The returned close func must be called once the screen exits.
func tuiLogger() (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !debugEnabled() {
		return discard, func() {}
	}

	dir, err := config.EnsureConfigDir()
	if err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, debugLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return discard, func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }
}
