package model

import "errors"

var (
	// Filesystem related errors
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrIsADirectory     = errors.New("is a directory")
	ErrNotADirectory    = errors.New("not a directory")
	ErrBinaryFile       = errors.New("binary file")
	ErrPermissionDenied = errors.New("permission denied")

	// Interaction related errors
	ErrOperationCancelled = errors.New("operation cancelled")

	// Undo related errors
	ErrUndoUnavailable = errors.New("nothing to undo")
	ErrUndoConflict    = errors.New("undo conflict")
)
