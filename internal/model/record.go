package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CommandKind is the name a command is recorded under in the history file.
type CommandKind string

const (
	KindCopy      CommandKind = "cp"
	KindMove      CommandKind = "mv"
	KindDelete    CommandKind = "rm"
	KindList      CommandKind = "ls"
	KindView      CommandKind = "cat"
	KindChangeDir CommandKind = "cd"
	KindHistory   CommandKind = "history"
	KindUndo      CommandKind = "undo"
	KindTrash     CommandKind = "trash"
)

// Reversible reports whether a successful command of this kind can be undone.
func (k CommandKind) Reversible() bool {
	switch k {
	case KindCopy, KindMove, KindDelete:
		return true
	default:
		return false
	}
}

// ReversalData holds what the undo engine needs to reverse a command.
// copy/move use SourcePath and DestinationPath, delete uses OriginalPath and TrashPath.
type ReversalData struct {
	SourcePath      string `json:"src_path,omitempty"`
	DestinationPath string `json:"dst_path,omitempty"`
	OriginalPath    string `json:"path,omitempty"`
	TrashPath       string `json:"trash_path,omitempty"`
}

func (r ReversalData) IsZero() bool {
	return r == ReversalData{}
}

// OperationRecord is one executed command attempt.
type OperationRecord struct {
	ID        string       `json:"id,omitempty"`
	Time      time.Time    `json:"time"`
	Command   CommandKind  `json:"command"`
	Args      []string     `json:"args"`
	Status    bool         `json:"status"`
	Error     string       `json:"error,omitempty"`
	OtherData ReversalData `json:"other_data"`
}

// Reversible reports whether the undo engine may consume this record.
func (r OperationRecord) Reversible() bool {
	return r.Status && r.Command.Reversible()
}

// CommandLine renders the command and its arguments the way they were typed.
func (r OperationRecord) CommandLine() string {
	if len(r.Args) == 0 {
		return string(r.Command)
	}
	return string(r.Command) + " " + strings.Join(r.Args, " ")
}

// UnmarshalJSON accepts zone-less ISO-8601 timestamps as well as RFC 3339.
func (r *OperationRecord) UnmarshalJSON(data []byte) error {
	type alias OperationRecord
	aux := struct {
		*alias
		Time string `json:"time"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if strings.TrimSpace(aux.Time) != "" {
		parsed, err := ParseTimestamp(aux.Time)
		if err != nil {
			return err
		}
		r.Time = parsed
	}
	if r.Args == nil {
		r.Args = []string{}
	}

	return nil
}

// ParseTimestamp parses a history timestamp in any of the layouts the file may contain.
func ParseTimestamp(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}
