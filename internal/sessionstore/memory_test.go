package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileflow/backend/internal/models"
)

func TestMemoryStoreCreate(t *testing.T) {
	s := NewMemoryStore(0)
	start := time.Now()

	sess, err := s.Create(context.Background(), 3, 300, start)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 3, sess.TotalFiles)
	assert.Equal(t, int64(300), sess.TotalSize)
	assert.Equal(t, models.SessionStatusActive, sess.Status)
	assert.Nil(t, sess.EndTime)
	assert.True(t, sess.StartTime.Equal(start))
}

func TestMemoryStoreCompleteOnce(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := s.Create(ctx, 2, 200, time.Now())
	require.NoError(t, err)

	end := time.Now()
	done, err := s.Complete(ctx, sess.ID, end, 2)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, done.Status)
	assert.Equal(t, 2, done.UploadedFiles)
	require.NotNil(t, done.EndTime)
	assert.True(t, done.EndTime.Equal(end))

	// Completion is terminal.
	_, err = s.Complete(ctx, sess.ID, time.Now(), 2)
	assert.ErrorIs(t, err, ErrCompleted)
}

func TestMemoryStoreCompleteUnknown(t *testing.T) {
	s := NewMemoryStore(0)
	_, err := s.Complete(context.Background(), "missing", time.Now(), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := s.Create(ctx, 2, 200, time.Now())
	require.NoError(t, err)

	n := 1
	updated, err := s.Update(ctx, sess.ID, Update{UploadedFiles: &n})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UploadedFiles)
	assert.NotNil(t, updated.UpdatedAt)

	// No update path exists after completion.
	_, err = s.Complete(ctx, sess.ID, time.Now(), 2)
	require.NoError(t, err)
	_, err = s.Update(ctx, sess.ID, Update{UploadedFiles: &n})
	assert.ErrorIs(t, err, ErrCompleted)
}

func TestMemoryStoreActiveAndList(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	a, err := s.Create(ctx, 1, 10, time.Now())
	require.NoError(t, err)
	_, err = s.Create(ctx, 2, 20, time.Now())
	require.NoError(t, err)

	_, err = s.Complete(ctx, a.ID, time.Now(), 1)
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.SessionStatusActive, active[0].Status)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := s.Create(ctx, 1, 10, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, sess.ID), ErrNotFound)
}

func TestMemoryStoreGetReturnsClone(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	sess, err := s.Create(ctx, 1, 10, time.Now())
	require.NoError(t, err)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	got.TotalFiles = 99

	fresh, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalFiles)
}
