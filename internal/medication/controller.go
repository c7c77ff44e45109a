package medication

import (
	"context"
	"log"
	"sync"

	"github.com/healing-app/healing/internal/storage"
)

// ReminderScheduler is the scheduling seam the controller calls after a
// successful insert. The production implementation enqueues a durable
// work item; tests substitute a recorder.
type ReminderScheduler interface {
	Schedule(dayEpochDay int64, hour, minute int, title string, dose int) error
}

// Controller is the session-scoped orchestrator the UI layer talks to.
// It owns the selected-day cursor and is the only place where a store
// mutation triggers reminder scheduling.
type Controller struct {
	store *Store
	sched ReminderScheduler

	mu     sync.Mutex
	day    int64
	cursor *storage.Hub
}

// NewController starts with the cursor on today.
func NewController(store *Store, sched ReminderScheduler) *Controller {
	return &Controller{
		store:  store,
		sched:  sched,
		day:    Today(),
		cursor: storage.NewHub(),
	}
}

// SelectDay moves the day cursor. Every MedsOfDay stream drops its old
// day subscription and re-subscribes to the new day.
func (c *Controller) SelectDay(day int64) {
	c.mu.Lock()
	c.day = day
	c.mu.Unlock()
	c.cursor.Broadcast()
}

// SelectedDay returns the current cursor position.
func (c *Controller) SelectedDay() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// Add normalizes the inputs (trim/placeholder name, silently clamped
// dose, hour and minute), inserts the record, and then schedules
// exactly one reminder with the normalized values. A scheduling failure is logged and swallowed: the
// record is already saved, and losing only the reminder beats losing
// the medication data.
func (c *Controller) Add(name string, dose int, day int64, hour, minute int) (int64, error) {
	m := Medication{
		Name:         NormalizeName(name),
		DoseCount:    ClampDose(dose),
		DateEpochDay: day,
		Hour:         ClampHour(hour),
		Minute:       ClampMinute(minute),
	}

	id, err := c.store.Insert(m)
	if err != nil {
		return 0, err
	}

	if err := c.sched.Schedule(m.DateEpochDay, m.Hour, m.Minute, m.Name, m.DoseCount); err != nil {
		log.Printf("[medication] reminder enqueue failed for %q: %v", m.Name, err)
	}

	return id, nil
}

// Update replaces the stored record. It deliberately does not reschedule
// or cancel the reminder enqueued at add time; an already-queued payload
// keeps its original snapshot. Known gap, kept as documented behavior.
func (c *Controller) Update(m Medication) error {
	return c.store.Update(m)
}

// Delete removes the record. The reminder enqueued for it, if any, is
// not cancelled and will still fire with the payload captured at
// schedule time.
func (c *Controller) Delete(m Medication) error {
	return c.store.Delete(m.ID)
}

// MarkTaken flips the taken flag on a single record.
func (c *Controller) MarkTaken(id int64, taken bool) error {
	return c.store.SetTaken(id, taken)
}

// GetByID passes through to the store.
func (c *Controller) GetByID(id int64) (*Medication, error) {
	return c.store.GetByID(id)
}

// MedsOfDay streams the medications of the currently selected day,
// following the cursor: on SelectDay the stream switches to the new day
// with no stale delivery from the old one. Ends when ctx is cancelled.
func (c *Controller) MedsOfDay(ctx context.Context) <-chan []Medication {
	// Unbuffered on purpose: a snapshot of the old day that nobody has
	// read yet must not surface after the cursor moved.
	out := make(chan []Medication)
	moved, unsubscribe := c.cursor.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for ctx.Err() == nil {
			inner, cancel := context.WithCancel(ctx)
			src := c.store.ObserveByDay(inner, c.SelectedDay())

		forward:
			for {
				select {
				case meds, ok := <-src:
					if !ok {
						break forward
					}
					// The cursor may have moved while this snapshot was
					// in flight. Check before offering it, so a receiver
					// that is already waiting cannot win the send against
					// the pending move signal.
					select {
					case <-moved:
						break forward
					default:
					}
					select {
					case out <- meds:
					case <-moved:
						break forward
					case <-ctx.Done():
						cancel()
						return
					}
				case <-moved:
					break forward
				case <-ctx.Done():
					cancel()
					return
				}
			}
			cancel()
		}
	}()

	return out
}

// MedsBetween streams the medications with day in [start, end], both
// inclusive, ordered by (day, hour, minute).
func (c *Controller) MedsBetween(ctx context.Context, start, end int64) <-chan []Medication {
	return c.store.ObserveByRange(ctx, start, end)
}
