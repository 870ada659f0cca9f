package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshell/internal/model"
	"fileshell/pkg/cmderror"
)

func TestRecorderRecord(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reversal := model.ReversalData{SourcePath: "/w/a", DestinationPath: "/w/b"}

	ok, err := env.recorder.Record(ctx, env.sess, model.KindCopy, []string{"a", "b"}, reversal, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, ok.ID)
	assert.True(t, ok.Status)
	assert.Empty(t, ok.Error)
	assert.Equal(t, reversal, ok.OtherData)
	assert.Equal(t, fixedNow, ok.Time)

	failed, err := env.recorder.Record(ctx, env.sess, model.KindCopy, []string{"a", "b"}, reversal, errors.New("'a' doesn't exist"))
	require.NoError(t, err)
	assert.False(t, failed.Status)
	assert.Equal(t, "'a' doesn't exist", failed.Error)
	assert.True(t, failed.OtherData.IsZero())

	listed, err := env.recorder.Record(ctx, env.sess, model.KindList, nil, reversal, nil)
	require.NoError(t, err)
	assert.True(t, listed.OtherData.IsZero())
	assert.Equal(t, []string{}, listed.Args)

	require.Equal(t, 3, env.sess.History.Len())

	lines := strings.Split(strings.TrimSpace(env.logBuf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "INFO  cp a b - SUCCESS"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "ERROR cp a b - ERROR: 'a' doesn't exist code=INTERNAL"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "INFO  ls - SUCCESS"), lines[2])

	_, err = env.recorder.Record(ctx, env.sess, model.KindView, []string{"ghost"}, model.ReversalData{}, cmderror.New(model.ErrNotFound, "NOT_FOUND", "'ghost' doesn't exist", ""))
	require.NoError(t, err)
	assert.Contains(t, env.logBuf.String(), "cat ghost - ERROR: 'ghost' doesn't exist code=NOT_FOUND")
}

func TestRecorderRetract(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	rec, err := env.recorder.Record(ctx, env.sess, model.KindMove, []string{"a", "b"}, model.ReversalData{SourcePath: "/a", DestinationPath: "/b"}, nil)
	require.NoError(t, err)

	require.NoError(t, env.recorder.Retract(ctx, env.sess, rec))
	assert.Zero(t, env.sess.History.Len())
	assert.Contains(t, env.logBuf.String(), "DEBUG retracted mv a b id="+rec.ID)

	require.ErrorIs(t, env.recorder.Retract(ctx, env.sess, rec), model.ErrNotFound)
}
