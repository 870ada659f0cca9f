package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const commandLogTimeLayout = "2006-01-02 15:04:05"

// NewCommandLogger builds the logger that receives one line per executed command.
func NewCommandLogger(w io.Writer) *slog.Logger {
	return slog.New(NewPrettyHandler(w, &Options{
		HandlerOptions: slog.HandlerOptions{Level: slog.LevelDebug},
		TimeLayout:     commandLogTimeLayout,
		NoColor:        true,
	}))
}

// OpenCommandLog appends to the command log file at path, creating it if needed.
// The returned file must be closed by the caller.
func OpenCommandLog(path string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("prepare log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open command log: %w", err)
	}

	return NewCommandLogger(f), f, nil
}
