// Package archive cuts at most one immutable snapshot page per calendar
// date. Creation is lazy and existence-checked: the archive file on disk is
// the sole idempotency signal, so repeated runs within the trigger hour do
// no duplicate work. Days on which the process never ran during the trigger
// hour are silently never archived; there is no backfill.
package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newsraw/app/render"
	"newsraw/app/store"
)

const dateLayout = "2006-01-02"

type Scheduler struct {
	dir       string
	hour      int
	generator *render.Generator
}

func NewScheduler(dir string, triggerHour int, generator *render.Generator) *Scheduler {
	return &Scheduler{
		dir:       dir,
		hour:      triggerHour,
		generator: generator,
	}
}

// Run decides once per invocation whether yesterday's archive must be cut.
// It returns true only when a new artifact was written this call. An empty
// snapshot writes nothing, leaving the date eligible for a later run within
// the same trigger hour.
func (s *Scheduler) Run(st *store.Store, now time.Time) (bool, error) {
	if now.Hour() != s.hour {
		return false, nil
	}

	targetDate := now.AddDate(0, 0, -1).Format(dateLayout)
	artifactPath := s.ArtifactPath(targetDate)

	if _, err := os.Stat(artifactPath); err == nil {
		slog.Debug("Archive already cut", "date", targetDate, "path", artifactPath)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check archive artifact: %w", err)
	}

	articles := st.SnapshotByDate(targetDate)
	if len(articles) == 0 {
		slog.Debug("No articles for archive date, skipping", "date", targetDate)
		return false, nil
	}

	page, err := s.generator.Archive(targetDate, articles)
	if err != nil {
		return false, fmt.Errorf("failed to render archive: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(artifactPath, []byte(page), 0o644); err != nil {
		return false, fmt.Errorf("failed to write archive artifact: %w", err)
	}

	slog.Info("Archive cut", "date", targetDate, "articles", len(articles), "path", artifactPath)

	return true, nil
}

// ArtifactPath returns the deterministic file name for a date's archive.
func (s *Scheduler) ArtifactPath(date string) string {
	return filepath.Join(s.dir, date+".html")
}
