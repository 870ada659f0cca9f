package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fileshell/internal/model"
)

func TestSortItems(t *testing.T) {
	t.Parallel()

	t.Run("sorts by size descending and keeps stable order for ties", func(t *testing.T) {
		items := []model.FileItem{
			{Name: "alpha.txt", Size: 200},
			{Name: "beta.txt", Size: 100},
			{Name: "gamma.txt", Size: 100},
		}

		sortItems(items, "size", "desc")

		require.Equal(t, "alpha.txt", items[0].Name)
		require.Equal(t, "beta.txt", items[1].Name)
		require.Equal(t, "gamma.txt", items[2].Name)
	})

	t.Run("sorts by modified_at ascending", func(t *testing.T) {
		base := time.Now().UTC()
		items := []model.FileItem{
			{Name: "c.txt", ModifiedAt: base.Add(2 * time.Hour)},
			{Name: "a.txt", ModifiedAt: base.Add(-2 * time.Hour)},
			{Name: "b.txt", ModifiedAt: base},
		}

		sortItems(items, "modified_at", "asc")

		require.Equal(t, "a.txt", items[0].Name)
		require.Equal(t, "b.txt", items[1].Name)
		require.Equal(t, "c.txt", items[2].Name)
	})

	t.Run("directories first by type", func(t *testing.T) {
		items := []model.FileItem{
			{Name: "b.txt"},
			{Name: "z", IsDir: true},
			{Name: "a.txt"},
		}

		sortItems(items, "type", "")

		require.Equal(t, "z", items[0].Name)
		require.Equal(t, "a.txt", items[1].Name)
		require.Equal(t, "b.txt", items[2].Name)
	})
}

func TestDirectoryList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewDirectoryService()
	writeFile(t, env.path("work", "b.txt"), "bb")
	writeFile(t, env.path("work", "a.txt"), "a")
	require.NoError(t, os.Mkdir(env.path("work", "sub"), 0o750))

	data, err := svc.List(context.Background(), env.sess, "work", "", "")
	require.NoError(t, err)
	require.Equal(t, env.path("work"), data.CurrentPath)
	require.Len(t, data.Items, 3)
	require.Equal(t, "a.txt", data.Items[0].Name)
	require.Equal(t, "b.txt", data.Items[1].Name)
	require.Equal(t, int64(2), data.Items[1].Size)
	require.Equal(t, "sub", data.Items[2].Name)
	require.True(t, data.Items[2].IsDir)
	require.Equal(t, os.FileMode(0o750), data.Items[2].Mode.Perm())

	_, err = svc.List(context.Background(), env.sess, "missing", "", "")
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.List(context.Background(), env.sess, "work/a.txt", "", "")
	require.ErrorIs(t, err, model.ErrNotADirectory)
}

func TestDirectoryChangeDir(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewDirectoryService()
	writeFile(t, env.path("work", "inner", "file.txt"), "x")

	dir, err := svc.ChangeDir(context.Background(), env.sess, "work/inner")
	require.NoError(t, err)
	require.Equal(t, env.path("work", "inner"), dir)
	require.Equal(t, dir, env.sess.Dir())

	dir, err = svc.ChangeDir(context.Background(), env.sess, "..")
	require.NoError(t, err)
	require.Equal(t, env.path("work"), dir)

	_, err = svc.ChangeDir(context.Background(), env.sess, "inner/file.txt")
	require.ErrorIs(t, err, model.ErrNotADirectory)

	_, err = svc.ChangeDir(context.Background(), env.sess, "nowhere")
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Equal(t, env.path("work"), env.sess.Dir())
}
