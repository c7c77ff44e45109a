package schedule

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu    sync.Mutex
	shown []string
}

func (r *recordingNotifier) Show(title string, dose int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, title)
	return nil
}

func (r *recordingNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.shown...)
}

func TestRunnerRejectsBadInterval(t *testing.T) {
	q := newTestQueue(t)
	r := NewRunner(q, &recordingNotifier{}, 0)

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("zero interval accepted")
	}
}

func TestRunnerDeliversDueItemsOnce(t *testing.T) {
	q := newTestQueue(t)

	past := time.Now().Add(-time.Minute)
	if _, err := q.Enqueue("Ibuprofeno", 2, past); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := q.Enqueue("Paracetamol", 1, past); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	// Far in the future, must not fire.
	if _, err := q.Enqueue("Futuro", 1, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	notifier := &recordingNotifier{}
	r := NewRunner(q, notifier, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for len(notifier.titles()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("runner delivered %v before deadline", notifier.titles())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	titles := notifier.titles()
	if len(titles) != 2 {
		t.Fatalf("delivered %v, want exactly the two due items", titles)
	}

	// Delivered items stay claimed; another tick sees nothing due.
	due, err := q.Due(time.Now())
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("items still due after delivery: %+v", due)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	q := newTestQueue(t)
	r := NewRunner(q, &recordingNotifier{}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v on cancel, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
