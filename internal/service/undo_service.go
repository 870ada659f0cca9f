package service

import (
	"context"
	"fmt"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/internal/storage"
	"fileshell/pkg/cmderror"
)

type UndoService struct {
	trash    *TrashService
	recorder *Recorder
}

func NewUndoService(trash *TrashService, recorder *Recorder) *UndoService {
	return &UndoService{trash: trash, recorder: recorder}
}

// Undo reverses the newest successful copy, move or delete and drops its
// record from the history. On conflict nothing is touched.
func (s *UndoService) Undo(ctx context.Context, sess *session.Session) (model.OperationRecord, error) {
	rec, ok := sess.History.LastReversible()
	if !ok {
		return model.OperationRecord{}, cmderror.New(model.ErrUndoUnavailable, "UNDO_UNAVAILABLE", "No cancellable successful commands found", "")
	}

	var err error
	switch rec.Command {
	case model.KindCopy:
		err = s.undoCopy(rec.OtherData)
	case model.KindMove:
		err = s.undoMove(rec.OtherData)
	case model.KindDelete:
		err = s.undoDelete(ctx, rec.OtherData)
	default:
		err = fmt.Errorf("unsupported command %q", rec.Command)
	}
	if err != nil {
		return rec, cmderror.New(model.ErrUndoConflict, "UNDO_CONFLICT", fmt.Sprintf("Couldn't cancel operation for command '%s'", rec.CommandLine()), err.Error())
	}

	if err := s.recorder.Retract(ctx, sess, rec); err != nil {
		return rec, err
	}

	return rec, nil
}

func (s *UndoService) undoCopy(data model.ReversalData) error {
	if data.DestinationPath == "" {
		return fmt.Errorf("record has no destination path")
	}

	exists, err := storage.Exists(data.DestinationPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("'%s' no longer exists", data.DestinationPath)
	}

	return storage.RemovePath(data.DestinationPath)
}

func (s *UndoService) undoMove(data model.ReversalData) error {
	if data.SourcePath == "" || data.DestinationPath == "" {
		return fmt.Errorf("record has no source or destination path")
	}

	moved, err := storage.Exists(data.DestinationPath)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("'%s' no longer exists", data.DestinationPath)
	}

	occupied, err := storage.Exists(data.SourcePath)
	if err != nil {
		return err
	}
	if occupied {
		return fmt.Errorf("'%s' already exists", data.SourcePath)
	}

	return storage.MovePath(data.DestinationPath, data.SourcePath)
}

func (s *UndoService) undoDelete(ctx context.Context, data model.ReversalData) error {
	if data.OriginalPath == "" || data.TrashPath == "" {
		return fmt.Errorf("record has no original or trash path")
	}

	return s.trash.Restore(ctx, data.TrashPath, data.OriginalPath)
}
