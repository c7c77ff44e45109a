package schedule

import (
	"log"
	"time"
)

// Scheduler converts a (day, hour, minute) tuple into an absolute fire
// instant and hands the payload to the durable queue. Enqueue is
// fire-and-forget: it returns once the item is persisted and never
// blocks on delivery.
type Scheduler struct {
	queue *Queue

	// now and loc are swappable for tests; zero values mean the real
	// clock and the device's current local timezone.
	now func() time.Time
	loc *time.Location
}

func NewScheduler(queue *Queue) *Scheduler {
	return &Scheduler{queue: queue}
}

// Schedule enqueues exactly one work item carrying {title, dose}. The
// fire instant is the epoch day at hour:minute in the local timezone at
// the moment of scheduling. A fire instant in the past is scheduled
// with zero delay rather than rejected: a late reminder still fires
// once instead of being silently dropped. Hour/minute validation is the
// caller's job; the scheduler only clamps the delay.
func (s *Scheduler) Schedule(dayEpochDay int64, hour, minute int, title string, dose int) error {
	fire := fireInstant(dayEpochDay, hour, minute, s.location())

	now := s.clock()
	delay := fire.Sub(now)
	if delay < 0 {
		delay = 0
	}

	id, err := s.queue.Enqueue(title, dose, now.Add(delay))
	if err != nil {
		return err
	}

	log.Printf("[scheduler] enqueued reminder %d for %q in %s", id, title, delay.Round(time.Second))
	return nil
}

func fireInstant(dayEpochDay int64, hour, minute int, loc *time.Location) time.Time {
	year, month, day := time.Unix(dayEpochDay*86400, 0).UTC().Date()
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func (s *Scheduler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Scheduler) location() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	return time.Local
}
