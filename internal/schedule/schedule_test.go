package schedule

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/healing-app/healing/internal/storage"
)

func newTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	db, _ := newTestDB(t)
	q, err := NewQueue(db)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	return q
}

func TestScheduleFutureFiresAtInstant(t *testing.T) {
	q := newTestQueue(t)

	loc := time.UTC
	now := time.Date(2022, time.January, 10, 12, 0, 0, 0, loc)
	s := &Scheduler{queue: q, now: func() time.Time { return now }, loc: loc}

	// Day 19000 is 2022-01-13; 08:30 there is in the future.
	if err := s.Schedule(19000, 8, 30, "Ibuprofeno", 2); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	items, err := q.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("queue holds %d items, want 1", len(items))
	}

	it := items[0]
	if it.Title != "Ibuprofeno" || it.Dose != 2 {
		t.Errorf("payload = {%q, %d}, want {Ibuprofeno, 2}", it.Title, it.Dose)
	}

	wantFire := time.Date(2022, time.January, 13, 8, 30, 0, 0, loc)
	if !it.RunAt.Equal(wantFire) {
		t.Errorf("run time = %v, want %v", it.RunAt, wantFire)
	}
	if it.RunAt.Before(now) {
		t.Error("computed delay is negative")
	}
}

func TestSchedulePastClampsToNow(t *testing.T) {
	q := newTestQueue(t)

	loc := time.UTC
	now := time.Date(2022, time.June, 1, 12, 0, 0, 0, loc)
	s := &Scheduler{queue: q, now: func() time.Time { return now }, loc: loc}

	// Day 19000 (2022-01-13) is months in the past: scheduled with zero
	// delay, not dropped.
	if err := s.Schedule(19000, 8, 30, "Atrasado", 1); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	items, err := q.Due(now)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("past reminder not immediately due: %d items", len(items))
	}
	if !items[0].RunAt.Equal(now) {
		t.Errorf("run time = %v, want clamped to now (%v)", items[0].RunAt, now)
	}
}

func TestScheduleBoundaryIsZeroDelay(t *testing.T) {
	q := newTestQueue(t)

	loc := time.UTC
	fire := time.Date(2022, time.January, 13, 8, 30, 0, 0, loc)
	s := &Scheduler{queue: q, now: func() time.Time { return fire }, loc: loc}

	if err := s.Schedule(19000, 8, 30, "Justo", 1); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	items, err := q.Due(fire)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("reminder at exactly now not due: %d items", len(items))
	}
}

func TestEachScheduleEnqueuesIndependently(t *testing.T) {
	q := newTestQueue(t)
	s := NewScheduler(q)

	// No dedup key: identical calls produce independent items.
	for i := 0; i < 3; i++ {
		if err := s.Schedule(19000, 8, 30, "Repetido", 1); err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
	}

	items, err := q.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("queue holds %d items, want 3", len(items))
	}

	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.UID] {
			t.Fatalf("duplicate item UID %q", it.UID)
		}
		seen[it.UID] = true
	}
}

func TestClaimIsExactlyOnce(t *testing.T) {
	q := newTestQueue(t)

	now := time.Now()
	id, err := q.Enqueue("Una vez", 1, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	claimed, err := q.Claim(id, now)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if !claimed {
		t.Fatal("first claim refused")
	}

	claimed, err = q.Claim(id, now)
	if err != nil {
		t.Fatalf("second Claim failed: %v", err)
	}
	if claimed {
		t.Fatal("item claimed twice")
	}

	due, err := q.Due(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("claimed item still reported due: %+v", due)
	}
}

func TestQueueSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	q, err := NewQueue(db)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	runAt := time.Now().Add(time.Hour)
	if _, err := q.Enqueue("Persistente", 3, runAt); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen as a fresh process would.
	db2, err := storage.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db2.Close()

	q2, err := NewQueue(db2)
	if err != nil {
		t.Fatalf("failed to recreate queue: %v", err)
	}

	items, err := q2.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Persistente" || items[0].Dose != 3 {
		t.Fatalf("queue content after reopen = %+v, want the persisted item", items)
	}
}
