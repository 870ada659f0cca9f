// Package cli implements the fileshell command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fileshell/internal/app"
	"fileshell/internal/shell"
)

type rootOptions struct {
	workDir  string
	envFiles []string
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// exitError carries a command failure that was already reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "fileshell",
		Short: "A file manager shell with trash and undo",
		Long: `fileshell is an interactive shell for everyday file work: ls, cd, cat,
cp, mv and rm. Deleted files go to a trash directory, and the last copy,
move or delete can be reversed with undo.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.workDir, "workdir", "", "directory the shell starts in (overrides FILESHELL_WORKDIR)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env file to load instead of .env (repeatable)")

	root.AddCommand(newExecCommand(opts))

	return root
}

func newExecCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one shell command and exit",
		Example: `  fileshell exec ls -l
  fileshell exec rm -r build
  fileshell exec undo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}

			if err := a.Exec(cmd.Context(), strings.Join(args, " ")); err != nil {
				code := 1
				if errors.Is(err, shell.ErrUsage) {
					code = 2
				}
				return &exitError{code: code, err: err}
			}
			return nil
		},
	}

	// flags after the command name belong to the shell command
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newApp(opts *rootOptions) (*app.App, error) {
	if opts.workDir != "" {
		if err := os.Setenv("FILESHELL_WORKDIR", opts.workDir); err != nil {
			return nil, fmt.Errorf("set working directory: %w", err)
		}
	}

	return app.New(app.Options{EnvFiles: opts.envFiles})
}
