// Package shell runs the interactive command loop. Every line is parsed by a
// fresh cobra command tree and every outcome goes through one adapter that
// prints it, logs it and records it in the history.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"fileshell/internal/service"
	"fileshell/internal/session"
)

// ErrUsage marks a line that was rejected by the parser. Such lines are not recorded.
var ErrUsage = errors.New("usage")

type Services struct {
	Directories *service.DirectoryService
	Files       *service.FileService
	Operations  *service.OperationsService
	Trash       *service.TrashService
	Undo        *service.UndoService
	Recorder    *service.Recorder
}

type Options struct {
	NoColor bool
	Logger  *slog.Logger
}

type Shell struct {
	sess *session.Session
	svc  Services
	log  *slog.Logger

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	red    *color.Color
	green  *color.Color
	yellow *color.Color
	blue   *color.Color
	prompt *color.Color
}

// New builds a shell reading lines from in. When the session has no confirm
// function, the shell installs one that reads the answer from the same input.
func New(sess *session.Session, svc Services, in io.Reader, out io.Writer, errOut io.Writer, opts Options) *Shell {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Shell{
		sess:   sess,
		svc:    svc,
		log:    log,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		blue:   color.New(color.FgBlue),
		prompt: color.New(color.FgHiGreen),
	}

	if opts.NoColor {
		for _, c := range []*color.Color{s.red, s.green, s.yellow, s.blue, s.prompt} {
			c.DisableColor()
		}
	}

	if sess.Confirm == nil {
		sess.Confirm = s.confirm
	}

	return s
}

// Run reads and executes lines until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "fileshell started. Type 'exit' to quit.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.prompt.Fprint(s.out, s.sess.Dir())
		fmt.Fprint(s.out, " $ ")

		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read command: %w", readErr)
		}

		if strings.TrimSpace(line) != "" {
			if exit, _ := s.Execute(ctx, line); exit {
				return nil
			}
		}

		if errors.Is(readErr, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
	}
}

// Execute runs one line. It reports whether the line asked the shell to exit,
// and the error of the command after it has been printed and recorded.
func (s *Shell) Execute(ctx context.Context, line string) (bool, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false, nil
	}

	switch tokens[0] {
	case "exit", "quit":
		return true, nil
	}

	if !isKnownCommand(tokens[0]) {
		s.red.Fprintf(s.errOut, "Unknown command: %s\n", tokens[0])
		return false, fmt.Errorf("%w: unknown command %q", ErrUsage, tokens[0])
	}

	run := &invocation{raw: tokens[1:]}
	root := s.newCommandTree(run)
	root.SetArgs(tokens)

	err := root.ExecuteContext(ctx)
	if !run.ran {
		if err != nil {
			s.red.Fprintln(s.errOut, err.Error())
			return false, fmt.Errorf("%w: %s", ErrUsage, err.Error())
		}
		return false, nil
	}

	return false, run.err
}

// confirm asks on the shell's own output and reads the answer from its input.
func (s *Shell) confirm(prompt string) (bool, error) {
	fmt.Fprint(s.out, prompt)

	answer, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
