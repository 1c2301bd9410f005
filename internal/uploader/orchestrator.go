// Package uploader drives pending tracked files through the upload sequence,
// one file at a time, under a single upload session per invocation.
package uploader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fileflow/backend/internal/filestore"
	"github.com/fileflow/backend/internal/intake"
	"github.com/fileflow/backend/internal/models"
	"github.com/fileflow/backend/internal/notify"
	"github.com/fileflow/backend/internal/sessionstore"
)

// DefaultTick is the pause between simulated progress increments.
const DefaultTick = 100 * time.Millisecond

// ErrBusy is returned when an upload invocation is already running.
var ErrBusy = fmt.Errorf("an upload is already in progress")

// Orchestrator owns the per-file upload state machine:
// pending -> uploading -> completed, or uploading -> error. Terminal states
// are never left automatically.
type Orchestrator struct {
	files     *intake.Manager
	records   filestore.Store
	sessions  sessionstore.Store
	archive   *sessionstore.Archive
	notifier  notify.Notifier
	log       *log.Logger
	tick      time.Duration
	uploading atomic.Bool
}

// New creates an orchestrator. archive may be nil. A non-positive tick falls
// back to DefaultTick.
func New(files *intake.Manager, records filestore.Store, sessions sessionstore.Store,
	archive *sessionstore.Archive, notifier notify.Notifier, logger *log.Logger, tick time.Duration) *Orchestrator {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Orchestrator{
		files:    files,
		records:  records,
		sessions: sessions,
		archive:  archive,
		notifier: notifier,
		log:      logger,
		tick:     tick,
	}
}

// IsUploading reports whether an upload invocation is currently running.
// Collaborators use it to disable redundant upload triggers.
func (o *Orchestrator) IsUploading() bool {
	return o.uploading.Load()
}

// Upload processes every currently pending file, strictly sequentially in
// arrival order. Individual upload failures never abort the batch; only a
// session create/complete failure does. There is no mid-batch abort: ctx
// bounds the store calls, not the batch itself.
func (o *Orchestrator) Upload(ctx context.Context) error {
	pending := o.files.Pending()
	if len(pending) == 0 {
		o.notifier.Warning("No valid files to upload")
		return nil
	}

	if !o.uploading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer o.uploading.Store(false)

	var totalSize int64
	for _, f := range pending {
		totalSize += f.Size
	}

	sess, err := o.sessions.Create(ctx, len(pending), totalSize, time.Now())
	if err != nil {
		o.notifier.Error("Upload session failed")
		return fmt.Errorf("creating upload session: %w", err)
	}
	o.log.Info("upload session started", "session", sess.ID, "files", len(pending), "bytes", totalSize)

	for _, f := range pending {
		o.uploadOne(ctx, f)
	}

	completed, err := o.sessions.Complete(ctx, sess.ID, time.Now(), len(pending))
	if err != nil {
		o.notifier.Error("Upload session failed")
		return fmt.Errorf("completing upload session: %w", err)
	}
	o.notifier.Success("All files uploaded successfully!")
	o.log.Info("upload session completed", "session", completed.ID, "attempted", completed.UploadedFiles)

	if o.archive != nil {
		if err := o.archive.Append(ctx, completed); err != nil {
			o.log.Warn("failed to archive session", "session", completed.ID, "err", err)
		}
	}
	return nil
}

// uploadOne walks a single file through uploading -> completed/error.
func (o *Orchestrator) uploadOne(ctx context.Context, f *models.TrackedFile) {
	o.files.SetUploading(f.ID)

	// Eleven externally visible progress values: 0, 10, ..., 100.
	for progress := 0; progress <= 100; progress += 10 {
		time.Sleep(o.tick)
		o.files.SetProgress(f.ID, progress)
	}

	current, ok := o.files.Get(f.ID)
	if !ok {
		// Removed mid-upload; nothing left to transition.
		o.log.Warn("file removed during upload", "file", f.ID)
		return
	}
	if current.Status.Terminal() {
		// Reached a terminal state through another path; leave it alone.
		o.log.Warn("file left uploading state", "file", f.ID, "status", current.Status)
		return
	}

	if _, err := o.records.RecordUpload(ctx, current); err != nil {
		o.files.SetError(f.ID, "Upload failed")
		o.notifier.Error(fmt.Sprintf("Failed to upload %s", f.Name))
		o.log.Error("upload failed", "file", f.ID, "name", f.Name, "err", err)
		return
	}

	o.files.SetCompleted(f.ID)
	o.notifier.Success(fmt.Sprintf("%s uploaded successfully", f.Name))
	o.log.Debug("upload complete", "file", f.ID, "name", f.Name)
}
