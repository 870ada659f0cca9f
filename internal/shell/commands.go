package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fileshell/internal/model"
)

const defaultHistoryCount = 5

var knownCommands = map[string]struct{}{
	"ls":      {},
	"cd":      {},
	"cat":     {},
	"cp":      {},
	"mv":      {},
	"rm":      {},
	"history": {},
	"undo":    {},
	"trash":   {},
	"help":    {},
}

func isKnownCommand(name string) bool {
	_, ok := knownCommands[name]
	return ok
}

// invocation carries one line through the command tree. raw holds the
// arguments exactly as typed, flags included, for the history record.
type invocation struct {
	raw []string
	ran bool
	err error
}

func argCount(name string, min int, max int, hint string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		switch {
		case len(args) < min:
			return fmt.Errorf("%s: not enough arguments%s", name, hint)
		case max >= 0 && len(args) > max:
			return fmt.Errorf("%s: too many arguments%s", name, hint)
		}
		return nil
	}
}

func (s *Shell) newCommandTree(run *invocation) *cobra.Command {
	root := &cobra.Command{
		Use:           "fileshell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.errOut)

	root.AddCommand(
		s.lsCommand(run),
		s.cdCommand(run),
		s.catCommand(run),
		s.cpCommand(run),
		s.mvCommand(run),
		s.rmCommand(run),
		s.historyCommand(run),
		s.undoCommand(run),
		s.trashCommand(run),
	)

	return root
}

func (s *Shell) lsCommand(run *invocation) *cobra.Command {
	var long, bySize, byTime, reverse bool

	cmd := &cobra.Command{
		Use:   "ls [-l] [-S|-t] [-r] [path]",
		Short: "List a directory",
		Args:  argCount("ls", 0, 1, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			sortBy, order := "name", "asc"
			switch {
			case bySize:
				sortBy, order = "size", "desc"
			case byTime:
				sortBy, order = "modified_at", "desc"
			}
			if reverse {
				order = flipOrder(order)
			}

			data, err := s.svc.Directories.List(cmd.Context(), s.sess, path, sortBy, order)
			if err == nil {
				s.printListing(data, long)
			}

			run.err = s.complete(cmd.Context(), model.KindList, run.raw, model.ReversalData{}, err)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "show size, modification time and permissions")
	cmd.Flags().BoolVarP(&bySize, "size", "S", false, "sort by size, largest first")
	cmd.Flags().BoolVarP(&byTime, "time", "t", false, "sort by modification time, newest first")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "reverse the sort order")

	return cmd
}

func (s *Shell) cdCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "cd <path>",
		Short: "Change the working directory",
		Args:  argCount("cd", 1, 1, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			_, err := s.svc.Directories.ChangeDir(cmd.Context(), s.sess, args[0])
			run.err = s.complete(cmd.Context(), model.KindChangeDir, run.raw, model.ReversalData{}, err)
			return nil
		},
	}
}

func (s *Shell) catCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a text file",
		Args:  argCount("cat", 1, 1, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			content, err := s.svc.Files.View(cmd.Context(), s.sess, args[0])
			if err == nil {
				if content != "" && !strings.HasSuffix(content, "\n") {
					content += "\n"
				}
				s.blue.Fprint(s.out, content)
			}

			run.err = s.complete(cmd.Context(), model.KindView, run.raw, model.ReversalData{}, err)
			return nil
		},
	}
}

func (s *Shell) cpCommand(run *invocation) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "cp [-r] <source> <destination>",
		Short: "Copy a file or directory",
		Args:  argCount("cp", 2, 2, " (expected 2 files/dirs)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			reversal, err := s.svc.Operations.Copy(cmd.Context(), s.sess, args[0], args[1], recursive)
			run.err = s.complete(cmd.Context(), model.KindCopy, run.raw, reversal, err)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy directories recursively")
	return cmd
}

func (s *Shell) mvCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <destination>",
		Short: "Move or rename a file or directory",
		Args:  argCount("mv", 2, 2, " (expected 2 files/dirs)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			reversal, err := s.svc.Operations.Move(cmd.Context(), s.sess, args[0], args[1])
			run.err = s.complete(cmd.Context(), model.KindMove, run.raw, reversal, err)
			return nil
		},
	}
}

func (s *Shell) rmCommand(run *invocation) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rm [-r] <path>",
		Short: "Move a file or directory to the trash",
		Args:  argCount("rm", 1, 1, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			reversal, err := s.svc.Operations.Delete(cmd.Context(), s.sess, args[0], recursive)
			run.err = s.complete(cmd.Context(), model.KindDelete, run.raw, reversal, err)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete directories and their contents")
	return cmd
}

func (s *Shell) historyCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "history [count]",
		Short: "Show the most recent commands",
		Args:  argCount("history", 0, 1, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ran = true

			count := defaultHistoryCount
			if len(args) == 1 {
				if n, err := strconv.Atoi(args[0]); err == nil && n >= 0 {
					count = n
				}
			}

			total := s.sess.History.Len()
			if total == 0 {
				s.yellow.Fprintln(s.out, "No command in history")
				return nil
			}

			records := s.sess.History.Tail(count)
			s.printHistory(records, total-len(records))
			run.err = s.complete(cmd.Context(), model.KindHistory, run.raw, model.ReversalData{}, nil)
			return nil
		},
	}
}

func (s *Shell) undoCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the last copy, move or delete",
		Args:  argCount("undo", 0, 0, ""),
		RunE: func(cmd *cobra.Command, _ []string) error {
			run.ran = true

			undone, err := s.svc.Undo.Undo(cmd.Context(), s.sess)
			if err == nil {
				s.green.Fprintf(s.out, "Undone: %s\n", undone.CommandLine())
			}

			run.err = s.complete(cmd.Context(), model.KindUndo, run.raw, model.ReversalData{}, err)
			return nil
		},
	}
}

func (s *Shell) trashCommand(run *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "trash",
		Short: "List deleted files kept in the trash",
		Args:  argCount("trash", 0, 0, ""),
		RunE: func(cmd *cobra.Command, _ []string) error {
			run.ran = true

			entries, err := s.svc.Trash.List(cmd.Context())
			if err == nil {
				s.printTrash(entries)
			}

			run.err = s.complete(cmd.Context(), model.KindTrash, run.raw, model.ReversalData{}, err)
			return nil
		},
	}
}

func flipOrder(order string) string {
	if order == "desc" {
		return "asc"
	}
	return "desc"
}
