package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/pkg/cmderror"
)

// Recorder turns command outcomes into history records and command log lines.
type Recorder struct {
	log *slog.Logger
	now func() time.Time
}

func NewRecorder(commandLog *slog.Logger) *Recorder {
	if commandLog == nil {
		commandLog = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{log: commandLog, now: time.Now}
}

func (r *Recorder) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.now = now
}

// Record appends one record for a finished command. Reversal data is kept only
// for successful copy, move and delete. The returned error comes from
// persisting the history file; the record is in the session log either way.
func (r *Recorder) Record(ctx context.Context, sess *session.Session, kind model.CommandKind, args []string, reversal model.ReversalData, cmdErr error) (model.OperationRecord, error) {
	rec := model.OperationRecord{
		ID:      uuid.NewString(),
		Time:    r.now(),
		Command: kind,
		Args:    append([]string{}, args...),
		Status:  cmdErr == nil,
	}
	if cmdErr != nil {
		rec.Error = cmdErr.Error()
	}
	if rec.Reversible() {
		rec.OtherData = reversal
	}

	line := rec.CommandLine()
	if rec.Status {
		r.log.InfoContext(ctx, line+" - SUCCESS")
	} else {
		r.log.ErrorContext(ctx, line+" - ERROR: "+rec.Error, "code", cmderror.CodeOf(cmdErr))
	}

	if err := sess.History.Append(rec); err != nil {
		return rec, fmt.Errorf("save history: %w", err)
	}

	return rec, nil
}

// Retract removes a record that has been reversed.
func (r *Recorder) Retract(ctx context.Context, sess *session.Session, rec model.OperationRecord) error {
	if err := sess.History.Remove(rec.ID); err != nil {
		return err
	}

	r.log.DebugContext(ctx, "retracted "+strings.TrimSpace(rec.CommandLine()), "id", rec.ID)
	return nil
}
