package sessionstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileflow/backend/internal/models"
)

func completedSession(id string, files int, end time.Time) *models.UploadSession {
	start := end.Add(-time.Minute)
	return &models.UploadSession{
		ID:            id,
		TotalFiles:    files,
		TotalSize:     int64(files) * 100,
		UploadedFiles: files,
		StartTime:     start,
		EndTime:       &end,
		Status:        models.SessionStatusCompleted,
	}
}

func TestArchiveAppendAndRecent(t *testing.T) {
	a, err := NewArchive(filepath.Join(t.TempDir(), "sessions.duckdb"))
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, a.Append(ctx, completedSession("s1", 1, now.Add(-time.Hour))))
	require.NoError(t, a.Append(ctx, completedSession("s2", 2, now)))

	recent, err := a.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "s2", recent[0].ID, "newest first")
	assert.Equal(t, "s1", recent[1].ID)
	assert.Equal(t, 2, recent[0].UploadedFiles)
	assert.Equal(t, models.SessionStatusCompleted, recent[0].Status)
}

func TestArchiveRejectsActiveSession(t *testing.T) {
	a, err := NewArchive(filepath.Join(t.TempDir(), "sessions.duckdb"))
	require.NoError(t, err)
	defer a.Close()

	sess := models.NewUploadSession("s1", 1, 100, time.Now())
	assert.Error(t, a.Append(context.Background(), sess))
}

func TestArchiveRecentLimit(t *testing.T) {
	a, err := NewArchive(filepath.Join(t.TempDir(), "sessions.duckdb"))
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		sess := completedSession(
			string(rune('a'+i)),
			1,
			time.Now().Add(time.Duration(i)*time.Second),
		)
		require.NoError(t, a.Append(ctx, sess))
	}

	recent, err := a.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
