package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshell/internal/model"
)

func newRecord(id string, kind model.CommandKind, status bool, args ...string) model.OperationRecord {
	return model.OperationRecord{
		ID:      id,
		Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Command: kind,
		Args:    append([]string{}, args...),
		Status:  status,
	}
}

func readPersisted(t *testing.T, path string) []model.OperationRecord {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []model.OperationRecord
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestPersistKeepsOnlyTheMostRecentRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".history")
	store := NewStore(path, 10)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Append(newRecord(fmt.Sprintf("r%d", i), model.KindList, true, fmt.Sprintf("dir%d", i))))
	}

	persisted := readPersisted(t, path)
	require.Len(t, persisted, 10)
	for i, rec := range persisted {
		assert.Equal(t, fmt.Sprintf("r%d", i), rec.ID)
	}

	require.NoError(t, store.Append(newRecord("r10", model.KindList, true)))

	persisted = readPersisted(t, path)
	require.Len(t, persisted, 10)
	assert.Equal(t, "r1", persisted[0].ID)
	assert.Equal(t, "r10", persisted[9].ID)

	// the evicted record is still part of the session log
	require.Equal(t, 11, store.Len())
	assert.Equal(t, "r0", store.Records()[0].ID)
}

func TestPersistFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", ".history")
	store := NewStore(path, 10)

	rec := newRecord("a", model.KindCopy, true, "<in>.txt", "out&.txt")
	rec.OtherData = model.ReversalData{SourcePath: "/w/<in>.txt", DestinationPath: "/w/out&.txt"}
	require.NoError(t, store.Append(rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "\n    {\n        \"id\": \"a\",")
	assert.Contains(t, content, `"src_path": "/w/<in>.txt"`)
	assert.Contains(t, content, `"dst_path": "/w/out&.txt"`)
	assert.NotContains(t, content, `"error"`)

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty log", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), ".history"), 10)

		records, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Zero(t, store.Len())
	})

	t.Run("corrupt file yields empty log and an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".history")
		require.NoError(t, os.WriteFile(path, []byte("[{not json"), 0o644))

		store := NewStore(path, 10)
		records, err := store.Load()
		require.Error(t, err)
		assert.Empty(t, records)
		assert.Zero(t, store.Len())
	})

	t.Run("file written by the python shell", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".history")
		legacy := `[
    {
        "time": "2024-05-01T12:30:45.123456",
        "command": "rm",
        "args": ["notes.txt"],
        "status": true,
        "other_data": {"path": "/w/notes.txt", "trash_path": "/w/.trash/notes.txt_20240501_123045"}
    },
    {
        "time": "2024-05-01T12:31:00",
        "command": "cat",
        "args": ["missing.txt"],
        "status": false,
        "other_data": {}
    }
]`
		require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

		store := NewStore(path, 10)
		records, err := store.Load()
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.NotEmpty(t, records[0].ID)
		assert.NotEqual(t, records[0].ID, records[1].ID)
		assert.Equal(t, model.KindDelete, records[0].Command)
		assert.Equal(t, "/w/.trash/notes.txt_20240501_123045", records[0].OtherData.TrashPath)
		assert.Equal(t, 30, records[0].Time.Minute())
		assert.False(t, records[1].Status)

		last, ok := store.LastReversible()
		require.True(t, ok)
		assert.Equal(t, records[0].ID, last.ID)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".history")
	store := NewStore(path, 10)
	require.NoError(t, store.Append(newRecord("a", model.KindCopy, true)))
	require.NoError(t, store.Append(newRecord("b", model.KindList, true)))

	require.NoError(t, store.Remove("a"))

	persisted := readPersisted(t, path)
	require.Len(t, persisted, 1)
	assert.Equal(t, "b", persisted[0].ID)

	err := store.Remove("a")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestLastReversibleSkipsFailuresAndReadOnlyCommands(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), ".history"), 10)

	_, ok := store.LastReversible()
	require.False(t, ok)

	require.NoError(t, store.Append(newRecord("cp", model.KindCopy, true)))
	require.NoError(t, store.Append(newRecord("failed-mv", model.KindMove, false)))
	require.NoError(t, store.Append(newRecord("ls", model.KindList, true)))
	require.NoError(t, store.Append(newRecord("undo", model.KindUndo, true)))

	last, ok := store.LastReversible()
	require.True(t, ok)
	assert.Equal(t, "cp", last.ID)
}

func TestTail(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), ".history"), 10)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(newRecord(fmt.Sprint(i), model.KindList, true)))
	}

	tail := store.Tail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "2", tail[0].ID)
	assert.Equal(t, "3", tail[1].ID)

	assert.Len(t, store.Tail(50), 4)
	assert.Empty(t, store.Tail(0))
}
