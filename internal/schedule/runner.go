package schedule

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Notifier is what the runner invokes when a work item comes due. It
// receives only the carried payload; by the time an item fires, the
// process that enqueued it may long be gone.
type Notifier interface {
	Show(title string, dose int) error
}

// Runner drains the durable queue: it polls for due items and hands
// each claimed one to the notifier. Claiming before showing keeps
// delivery at most once; a notifier failure after a claim is logged and
// accepted (best effort, like the platform facilities this stands in for).
type Runner struct {
	queue    *Queue
	notifier Notifier
	interval time.Duration
}

func NewRunner(queue *Queue, notifier Notifier, interval time.Duration) *Runner {
	return &Runner{queue: queue, notifier: notifier, interval: interval}
}

// Run blocks, polling immediately on start and then on every interval
// tick. It exits when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("runner poll interval must be positive, got %s", r.interval)
	}

	log.Printf("[runner] started, polling every %s", r.interval)

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[runner] shutting down...")
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	now := time.Now()

	due, err := r.queue.Due(now)
	if err != nil {
		log.Printf("[runner] due query failed: %v", err)
		return
	}

	for _, item := range due {
		if ctx.Err() != nil {
			return
		}

		claimed, err := r.queue.Claim(item.ID, now)
		if err != nil {
			log.Printf("[runner] claim failed for item %d: %v", item.ID, err)
			continue
		}
		if !claimed {
			continue
		}

		if err := r.notifier.Show(item.Title, item.Dose); err != nil {
			log.Printf("[runner] notification failed for item %d (%q): %v", item.ID, item.Title, err)
		}
	}
}
