package notes

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/healing-app/healing/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func recvSnapshot(t *testing.T, ch <-chan []Note) []Note {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("observer channel closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestAddTrimsAndRejectsBlank(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add("   \n\t "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("blank note error = %v, want ErrEmpty", err)
	}

	id, err := s.Add("  tomar agua antes de dormir  ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != id {
		t.Fatalf("All = %+v, want the single inserted note", all)
	}
	if all[0].Content != "tomar agua antes de dormir" {
		t.Errorf("content = %q, want trimmed", all[0].Content)
	}
}

func TestUpdateContent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("original")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.UpdateContent(id, "  "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("blank update error = %v, want ErrEmpty", err)
	}
	if err := s.UpdateContent(id+99, "nuevo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing note update error = %v, want ErrNotFound", err)
	}

	if err := s.UpdateContent(id, " nuevo contenido "); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	all, _ := s.All()
	if all[0].Content != "nuevo contenido" {
		t.Errorf("content after update = %q", all[0].Content)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("efímera")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete error = %v, want ErrNotFound", err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("All after delete = %+v, want empty", all)
	}
}

func TestAllNewestFirst(t *testing.T) {
	s := newTestStore(t)

	// Same created_at second is possible; id breaks the tie newest first.
	first, _ := s.Add("primera")
	second, _ := s.Add("segunda")
	third, _ := s.Add("tercera")

	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("All returned %d notes, want 3", len(all))
	}
	if all[0].ID != third || all[1].ID != second || all[2].ID != first {
		t.Errorf("order = [%d %d %d], want newest first", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestObserveAllEmitsOnMutation(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.ObserveAll(ctx)
	if snap := recvSnapshot(t, ch); len(snap) != 0 {
		t.Fatalf("initial snapshot = %+v, want empty", snap)
	}

	if _, err := s.Add("observada"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if snap := recvSnapshot(t, ch); len(snap) != 1 || snap[0].Content != "observada" {
		t.Fatalf("snapshot after add = %+v", snap)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// One in-flight snapshot may still be buffered; the next
			// receive must observe the close.
			if _, ok := <-ch; ok {
				t.Fatal("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
