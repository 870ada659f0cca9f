package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationRecordReversible(t *testing.T) {
	t.Parallel()

	assert.True(t, OperationRecord{Command: KindDelete, Status: true}.Reversible())
	assert.False(t, OperationRecord{Command: KindDelete, Status: false}.Reversible())
	assert.False(t, OperationRecord{Command: KindList, Status: true}.Reversible())
	assert.False(t, OperationRecord{Command: KindUndo, Status: true}.Reversible())
}

func TestOperationRecordCommandLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "undo", OperationRecord{Command: KindUndo}.CommandLine())
	assert.Equal(t, "rm -r build", OperationRecord{Command: KindDelete, Args: []string{"-r", "build"}}.CommandLine())
}

func TestOperationRecordUnmarshal(t *testing.T) {
	t.Parallel()

	raw := `{"time": "2024-05-01T12:30:45.123456", "command": "mv", "args": ["a", "b"],
		"status": true, "other_data": {"src_path": "/w/a", "dst_path": "/w/b"}}`

	var rec OperationRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, time.Date(2024, 5, 1, 12, 30, 45, 123456000, time.Local), rec.Time)
	assert.Equal(t, KindMove, rec.Command)
	assert.Equal(t, ReversalData{SourcePath: "/w/a", DestinationPath: "/w/b"}, rec.OtherData)

	var noArgs OperationRecord
	require.NoError(t, json.Unmarshal([]byte(`{"time": "", "command": "ls", "status": true}`), &noArgs))
	assert.NotNil(t, noArgs.Args)
	assert.True(t, noArgs.Time.IsZero())

	var bad OperationRecord
	assert.Error(t, json.Unmarshal([]byte(`{"time": "yesterday", "command": "ls"}`), &bad))
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"2024-05-01T12:30:45Z",
		"2024-05-01T12:30:45+02:00",
		"2024-05-01T12:30:45",
		"2024-05-01 12:30:45",
	} {
		_, err := ParseTimestamp(raw)
		assert.NoError(t, err, raw)
	}
}
