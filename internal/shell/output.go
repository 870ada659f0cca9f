package shell

import (
	"context"
	"errors"
	"fmt"

	"fileshell/internal/model"
)

const (
	listingTimeLayout = "2006-01-02 15:04:05"
	historyTimeLayout = "15:04:05"
)

// complete is the single place where a command outcome becomes user output, a
// command log line and a history record. Cancelled commands and an empty undo
// are reported but never recorded.
func (s *Shell) complete(ctx context.Context, kind model.CommandKind, args []string, reversal model.ReversalData, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, model.ErrOperationCancelled):
		fmt.Fprintln(s.out, "Operation cancelled")
		return nil
	case errors.Is(err, model.ErrUndoUnavailable):
		s.yellow.Fprintln(s.out, err.Error())
		return err
	default:
		s.red.Fprintf(s.errOut, "%s: %s\n", kind, err.Error())
	}

	if _, recErr := s.svc.Recorder.Record(ctx, s.sess, kind, args, reversal, err); recErr != nil {
		s.log.Warn("history not saved", "file", s.sess.History.Path(), "error", recErr)
		s.yellow.Fprintln(s.errOut, "Couldn't save command history")
	}

	return err
}

func (s *Shell) printListing(data model.DirectoryListData, long bool) {
	for _, item := range data.Items {
		name := item.Name
		if item.IsDir {
			name = s.blue.Sprint(item.Name)
		}

		if !long {
			fmt.Fprintln(s.out, name)
			continue
		}

		fmt.Fprintf(s.out, "%s\t%d\t%s\t%03o\n",
			name,
			item.Size,
			item.ModifiedAt.Format(listingTimeLayout),
			item.Mode.Perm(),
		)
	}
}

// printHistory numbers records by their position in the whole session log;
// offset is the number of older records not shown.
func (s *Shell) printHistory(records []model.OperationRecord, offset int) {
	for i, rec := range records {
		status := s.green.Sprint("SUCCESS")
		if !rec.Status {
			status = s.red.Sprint("ERROR")
		}

		fmt.Fprintf(s.out, "%d %s [%s] %s\n", offset+i+1, status, rec.Time.Local().Format(historyTimeLayout), rec.CommandLine())
	}
}

func (s *Shell) printTrash(entries []model.TrashEntry) {
	if len(entries) == 0 {
		s.yellow.Fprintln(s.out, "Trash is empty")
		return
	}

	for _, entry := range entries {
		name := entry.OriginalPath
		if entry.IsDir {
			name = s.blue.Sprint(name + "/")
		}
		fmt.Fprintf(s.out, "%s\t%s\t%s\n", entry.DeletedAt.Format(listingTimeLayout), name, entry.TrashPath)
	}
}
