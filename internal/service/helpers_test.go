package service

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fileshell/internal/history"
	"fileshell/internal/logger"
	"fileshell/internal/session"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local)

type testEnv struct {
	root     string
	sess     *session.Session
	trash    *TrashService
	recorder *Recorder
	ops      *OperationsService
	undo     *UndoService
	logBuf   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	trash, err := NewTrashService(filepath.Join(root, ".trash"))
	require.NoError(t, err)
	trash.SetClock(func() time.Time { return fixedNow })

	logBuf := &bytes.Buffer{}
	recorder := NewRecorder(logger.NewCommandLogger(logBuf))
	recorder.SetClock(func() time.Time { return fixedNow })

	store := history.NewStore(filepath.Join(root, ".history"), 10)
	sess := session.New(root, store, func(string) (bool, error) { return true, nil })

	return &testEnv{
		root:     root,
		sess:     sess,
		trash:    trash,
		recorder: recorder,
		ops:      NewOperationsService(trash),
		undo:     NewUndoService(trash, recorder),
		logBuf:   logBuf,
	}
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	require.ErrorIs(t, err, os.ErrNotExist, path)
}
