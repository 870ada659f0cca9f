package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"fileshell/internal/model"
)

func TestFileServiceView(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewFileService()

	t.Run("text file", func(t *testing.T) {
		writeFile(t, env.path("notes.md"), "# Title\n\nSome words.\n")

		content, err := svc.View(context.Background(), env.sess, "notes.md")
		require.NoError(t, err)
		require.Equal(t, "# Title\n\nSome words.\n", content)
	})

	t.Run("json counts as text", func(t *testing.T) {
		writeFile(t, env.path("data.json"), `{"key": [1, 2, 3]}`)

		content, err := svc.View(context.Background(), env.sess, "data.json")
		require.NoError(t, err)
		require.Equal(t, `{"key": [1, 2, 3]}`, content)
	})

	t.Run("binary file", func(t *testing.T) {
		png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
		require.NoError(t, os.WriteFile(env.path("image.png"), png, 0o644))

		_, err := svc.View(context.Background(), env.sess, "image.png")
		require.ErrorIs(t, err, model.ErrBinaryFile)
	})

	t.Run("directory", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(env.path("folder"), 0o755))

		_, err := svc.View(context.Background(), env.sess, "folder")
		require.ErrorIs(t, err, model.ErrIsADirectory)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.View(context.Background(), env.sess, "ghost.txt")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
