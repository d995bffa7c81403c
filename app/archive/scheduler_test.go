package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsraw/app/render"
	"newsraw/app/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Load(filepath.Join(t.TempDir(), "articles.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testGenerator() *render.Generator {
	return render.NewGenerator(0.6, "test")
}

func TestScheduler_CutsArchiveOnce(t *testing.T) {
	dir := t.TempDir()
	s := testStore(t)

	// One day past the trigger hour boundary: now is 07:xx on the 28th,
	// the archive targets the 27th.
	now := time.Date(2026, 8, 28, 7, 15, 0, 0, time.UTC)
	s.Merge("Mainichi", []store.Candidate{
		{Link: "u1", Title: "Yesterday headline one"},
		{Link: "u2", Title: "Yesterday headline two"},
		{Link: "u3", Title: "Yesterday headline three"},
	}, "2026-08-27", 100)

	scheduler := NewScheduler(dir, 7, testGenerator())

	cut, err := scheduler.Run(s, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !cut {
		t.Fatal("Expected archive to be cut on first run")
	}

	artifact := scheduler.ArtifactPath("2026-08-27")
	data, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("Archive artifact missing: %v", err)
	}
	page := string(data)
	positions := make([]int, 0, 3)
	for _, title := range []string{"Yesterday headline one", "Yesterday headline two", "Yesterday headline three"} {
		idx := strings.Index(page, title)
		if idx < 0 {
			t.Fatalf("Archive page missing %q", title)
		}
		positions = append(positions, idx)
	}
	if !(positions[0] < positions[1] && positions[1] < positions[2]) {
		t.Errorf("Archive items not in discovery order, positions: %v", positions)
	}

	// Second run within the same trigger hour is a no-op.
	cut, err = scheduler.Run(s, now.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if cut {
		t.Error("Second run must not cut a second artifact")
	}
}

func TestScheduler_OutsideTriggerHour(t *testing.T) {
	dir := t.TempDir()
	s := testStore(t)
	s.Merge("Mainichi", []store.Candidate{{Link: "u1", Title: "Yesterday headline"}}, "2026-08-27", 100)

	scheduler := NewScheduler(dir, 7, testGenerator())

	cut, err := scheduler.Run(s, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cut {
		t.Error("Archive must not be cut outside the trigger hour")
	}
	if _, err := os.Stat(scheduler.ArtifactPath("2026-08-27")); !os.IsNotExist(err) {
		t.Error("No artifact should exist outside the trigger hour")
	}
}

func TestScheduler_EmptySnapshotWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s := testStore(t)
	s.Merge("Mainichi", []store.Candidate{{Link: "u1", Title: "Today headline"}}, "2026-08-28", 100)

	scheduler := NewScheduler(dir, 7, testGenerator())

	now := time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC)
	cut, err := scheduler.Run(s, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cut {
		t.Error("Empty snapshot must not produce an artifact")
	}

	// The date stays eligible: once articles for it exist, a later run
	// within the trigger hour cuts the archive.
	s.Merge("Mainichi", []store.Candidate{{Link: "u2", Title: "Late yesterday headline"}}, "2026-08-27", 50)

	cut, err = scheduler.Run(s, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("Retry run failed: %v", err)
	}
	if !cut {
		t.Error("Expected the retry run to cut the archive")
	}
}

func TestScheduler_ArtifactNamedByDate(t *testing.T) {
	scheduler := NewScheduler("/var/archive", 7, testGenerator())

	got := scheduler.ArtifactPath("2026-08-27")
	if got != filepath.Join("/var/archive", "2026-08-27.html") {
		t.Errorf("Unexpected artifact path: %s", got)
	}
}
