package sessionstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/fileflow/backend/internal/models"
)

// Archive keeps a durable, append-only history of completed upload sessions
// in a DuckDB file, so session history survives restarts of the otherwise
// ephemeral stores. Archive failures are reported to the caller but must
// never fail an upload.
type Archive struct {
	db     *sql.DB
	dbPath string
}

// NewArchive opens (or creates) the session archive at dbPath.
func NewArchive(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		_, err := execer.ExecContext(context.Background(), "PRAGMA memory_limit='256MB'", nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS upload_sessions (
			id             VARCHAR PRIMARY KEY,
			total_files    INTEGER NOT NULL,
			total_size     BIGINT  NOT NULL,
			uploaded_files INTEGER NOT NULL,
			start_time     BIGINT  NOT NULL,
			end_time       BIGINT  NOT NULL,
			archived_at    BIGINT  NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive table: %w", err)
	}

	return &Archive{db: db, dbPath: dbPath}, nil
}

// Append records a completed session. Sessions still active are rejected.
func (a *Archive) Append(ctx context.Context, sess *models.UploadSession) error {
	if sess.Status != models.SessionStatusCompleted || sess.EndTime == nil {
		return fmt.Errorf("session %s is not completed", sess.ID)
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO upload_sessions
			(id, total_files, total_size, uploaded_files, start_time, end_time, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID, sess.TotalFiles, sess.TotalSize, sess.UploadedFiles,
		sess.StartTime.UnixMilli(), sess.EndTime.UnixMilli(), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("archiving session %s: %w", sess.ID, err)
	}
	return nil
}

// Recent returns up to limit archived sessions, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]*models.UploadSession, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, total_files, total_size, uploaded_files, start_time, end_time
		FROM upload_sessions
		ORDER BY end_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []*models.UploadSession
	for rows.Next() {
		var (
			sess           models.UploadSession
			startMs, endMs int64
		)
		if err := rows.Scan(&sess.ID, &sess.TotalFiles, &sess.TotalSize,
			&sess.UploadedFiles, &startMs, &endMs); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		sess.StartTime = time.UnixMilli(startMs)
		end := time.UnixMilli(endMs)
		sess.EndTime = &end
		sess.Status = models.SessionStatusCompleted
		out = append(out, &sess)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
