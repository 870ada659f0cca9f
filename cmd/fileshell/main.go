package main

import (
	"context"
	"log/slog"
	"os"

	"fileshell/internal/cli"
	"fileshell/internal/logger"
)

func main() {
	// Replaced by app.New once the config is known.
	logHandler := logger.NewPrettyHandler(os.Stderr, &logger.Options{
		HandlerOptions: slog.HandlerOptions{Level: slog.LevelWarn},
	})
	slog.SetDefault(slog.New(logHandler))

	os.Exit(cli.Execute(context.Background()))
}
