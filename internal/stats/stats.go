// Package stats derives upload-session summary statistics from the tracked
// file list.
package stats

import (
	"math"

	"github.com/fileflow/backend/internal/models"
)

// Summary holds aggregate statistics recomputed from the tracked list on
// every observation. No cached state, no invalidation.
type Summary struct {
	TotalFiles      int   `json:"totalFiles"`      // files not in error state
	TotalSize       int64 `json:"totalSize"`       // bytes across displayable files
	CompletedFiles  int   `json:"completedFiles"`  // files fully uploaded
	EligibleFiles   int   `json:"eligibleFiles"`   // pending files ready for upload
	OverallProgress int   `json:"overallProgress"` // percent, rounded to nearest integer
}

// Compute derives the summary for the given tracked files.
func Compute(files []*models.TrackedFile) Summary {
	var s Summary
	for _, f := range files {
		switch f.Status {
		case models.FileStatusError:
			continue
		case models.FileStatusCompleted:
			s.CompletedFiles++
		case models.FileStatusPending:
			s.EligibleFiles++
		}
		s.TotalFiles++
		s.TotalSize += f.Size
	}

	if s.TotalFiles > 0 {
		s.OverallProgress = int(math.Round(float64(s.CompletedFiles) / float64(s.TotalFiles) * 100))
	}
	return s
}

// Displayable returns the files shown in the list summary, i.e. everything
// not in error state, preserving order.
func Displayable(files []*models.TrackedFile) []*models.TrackedFile {
	out := make([]*models.TrackedFile, 0, len(files))
	for _, f := range files {
		if f.Status != models.FileStatusError {
			out = append(out, f)
		}
	}
	return out
}
