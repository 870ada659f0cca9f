package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/internal/storage"
	"fileshell/pkg/cmderror"
)

// OperationsService runs the commands that can be undone. Each returns the
// data the undo engine needs to reverse it.
type OperationsService struct {
	trash *TrashService
}

func NewOperationsService(trash *TrashService) *OperationsService {
	return &OperationsService{trash: trash}
}

func (s *OperationsService) Copy(_ context.Context, sess *session.Session, source string, destination string, recursive bool) (model.ReversalData, error) {
	sourceResolved := sess.Resolve(source)
	info, err := os.Lstat(sourceResolved)
	if err != nil {
		return model.ReversalData{}, cmderror.FromOS(err, source)
	}

	if info.IsDir() && !recursive {
		return model.ReversalData{}, cmderror.New(model.ErrIsADirectory, "IS_A_DIRECTORY", fmt.Sprintf("'%s' is a directory", source), "use -r to copy it")
	}

	target, err := placeTarget(sourceResolved, sess.Resolve(destination))
	if err != nil {
		return model.ReversalData{}, err
	}

	if info.IsDir() {
		exists, err := storage.Exists(target)
		if err != nil {
			return model.ReversalData{}, cmderror.FromOS(err, destination)
		}
		if exists {
			return model.ReversalData{}, cmderror.New(model.ErrConflict, "ALREADY_EXISTS", fmt.Sprintf("'%s' already exists", target), "")
		}
	}

	if err := storage.CopyPath(sourceResolved, target); err != nil {
		return model.ReversalData{}, cmderror.FromOS(err, destination)
	}

	return model.ReversalData{SourcePath: sourceResolved, DestinationPath: target}, nil
}

func (s *OperationsService) Move(_ context.Context, sess *session.Session, source string, destination string) (model.ReversalData, error) {
	sourceResolved := sess.Resolve(source)
	if storage.IsProtectedRoot(sess.Dir(), source, sourceResolved) {
		return model.ReversalData{}, cmderror.New(model.ErrPermissionDenied, "PERMISSION_DENIED", fmt.Sprintf("Cannot move '%s'", source), "root or parent directory")
	}
	if storage.IsWithin(sourceResolved, s.trash.Root()) {
		return model.ReversalData{}, cmderror.New(model.ErrPermissionDenied, "PERMISSION_DENIED", fmt.Sprintf("Cannot move '%s'", source), "contains the trash directory")
	}

	if _, err := os.Lstat(sourceResolved); err != nil {
		return model.ReversalData{}, cmderror.FromOS(err, source)
	}

	target, err := placeTarget(sourceResolved, sess.Resolve(destination))
	if err != nil {
		return model.ReversalData{}, err
	}

	if err := storage.MovePath(sourceResolved, target); err != nil {
		return model.ReversalData{}, cmderror.FromOS(err, destination)
	}

	return model.ReversalData{SourcePath: sourceResolved, DestinationPath: target}, nil
}

func (s *OperationsService) Delete(ctx context.Context, sess *session.Session, path string, recursive bool) (model.ReversalData, error) {
	entry, err := s.trash.Put(ctx, sess, path, recursive)
	if err != nil {
		return model.ReversalData{}, err
	}

	return model.ReversalData{OriginalPath: entry.OriginalPath, TrashPath: entry.TrashPath}, nil
}

// placeTarget puts source inside destination when destination is an existing
// directory, and refuses targets that are the source itself or lie below it.
func placeTarget(source string, destination string) (string, error) {
	target := destination
	if info, err := os.Stat(destination); err == nil && info.IsDir() {
		target = filepath.Join(destination, filepath.Base(source))
	}

	if target == source {
		return "", cmderror.New(model.ErrConflict, "SAME_PATH", fmt.Sprintf("'%s' and '%s' are the same path", source, target), "")
	}
	if storage.IsWithin(source, target) {
		return "", cmderror.New(model.ErrConflict, "CONFLICT", fmt.Sprintf("Cannot place '%s' inside itself", source), "")
	}

	return target, nil
}
