package cmderror

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fileshell/internal/model"
)

type Error struct {
	Code    string
	Message string
	Details string
	Kind    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}

	return e.Message
}

// Unwrap exposes the sentinel kind so errors.Is matches against it.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func New(kind error, code string, message string, details string) *Error {
	return &Error{Code: code, Message: message, Details: details, Kind: kind}
}

// CodeOf returns the code of the first *Error in err's chain, or "INTERNAL".
func CodeOf(err error) string {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return "INTERNAL"
}

// FromOS classifies a raw filesystem error against the model sentinels.
// Errors that are already classified pass through unchanged.
func FromOS(err error, path string) error {
	if err == nil {
		return nil
	}

	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return err
	}

	var pathErr *fs.PathError
	reason := err.Error()
	if errors.As(err, &pathErr) {
		reason = pathErr.Err.Error()
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Code: "NOT_FOUND", Message: fmt.Sprintf("'%s' doesn't exist", path), Kind: model.ErrNotFound}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Code: "PERMISSION_DENIED", Message: fmt.Sprintf("'%s'", path), Details: reason, Kind: model.ErrPermissionDenied}
	case errors.Is(err, fs.ErrExist):
		return &Error{Code: "ALREADY_EXISTS", Message: fmt.Sprintf("'%s' already exists", path), Kind: model.ErrConflict}
	default:
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) {
			reason = linkErr.Err.Error()
		}
		return fmt.Errorf("'%s': %s", path, reason)
	}
}
