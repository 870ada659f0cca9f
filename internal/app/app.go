package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fileshell/internal/config"
	"fileshell/internal/history"
	"fileshell/internal/logger"
	"fileshell/internal/service"
	"fileshell/internal/session"
	"fileshell/internal/shell"
)

type Options struct {
	EnvFiles []string

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type App struct {
	Config  *config.Config
	Session *session.Session
	Shell   *shell.Shell

	out          io.Writer
	cleanupFuncs []func()
}

func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.EnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	slog.SetDefault(slog.New(logger.NewPrettyHandler(opts.ErrOut, &logger.Options{
		HandlerOptions: slog.HandlerOptions{Level: cfg.LogLevel},
		NoColor:        cfg.NoColor,
	})))

	commandLog, logFile, err := logger.OpenCommandLog(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open command log: %w", err)
	}

	store := history.NewStore(cfg.HistoryFile, cfg.HistoryLimit)
	if records, loadErr := store.Load(); loadErr != nil {
		slog.Warn("history file not loaded, starting with an empty history", "file", cfg.HistoryFile, "error", loadErr)
	} else {
		slog.Debug("history loaded", "file", cfg.HistoryFile, "count", len(records))
	}

	trashService, err := service.NewTrashService(cfg.TrashRoot)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to initialize trash service: %w", err)
	}

	recorder := service.NewRecorder(commandLog)
	sess := session.New(cfg.WorkDir, store, nil)

	sh := shell.New(sess, shell.Services{
		Directories: service.NewDirectoryService(),
		Files:       service.NewFileService(),
		Operations:  service.NewOperationsService(trashService),
		Trash:       trashService,
		Undo:        service.NewUndoService(trashService, recorder),
		Recorder:    recorder,
	}, opts.In, opts.Out, opts.ErrOut, shell.Options{NoColor: cfg.NoColor, Logger: slog.Default()})

	slog.Debug("shell ready", "workdir", cfg.WorkDir, "trash", trashService.Root(), "history_limit", store.Limit())

	return &App{
		Config:  cfg,
		Session: sess,
		Shell:   sh,
		out:     opts.Out,
		cleanupFuncs: []func(){
			func() {
				_ = logFile.Close()
			},
		},
	}, nil
}

// Run starts the interactive loop. Interrupts do not stop the shell; they
// remind the user how to leave it.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, syscall.SIGINT)
	defer func() {
		signal.Stop(interrupts)
		close(interrupts)
	}()

	go func() {
		for range interrupts {
			fmt.Fprintln(a.out, "\nUse 'exit' to quit")
		}
	}()

	return a.Shell.Run(ctx)
}

// Exec runs a single command line and returns its error.
func (a *App) Exec(ctx context.Context, line string) error {
	defer a.Close()

	_, err := a.Shell.Execute(ctx, line)
	return err
}

func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}
