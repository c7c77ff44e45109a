// Package schedule turns a medication's (day, hour, minute) into a
// durable, payload-carrying work item and delivers each item exactly
// once after its run time. The queue lives in SQLite, independent of
// the enqueuing process, so reminders survive restarts.
package schedule

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item is one deferred reminder. The payload (Title, Dose) is the
// snapshot captured at schedule time; the runner never reads the
// medication store, so later edits or deletes do not change it.
type Item struct {
	ID          int64
	UID         string
	Title       string
	Dose        int
	RunAt       time.Time
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

// Queue is the durable work queue backing the reminder pipeline.
type Queue struct {
	db *sql.DB
}

// NewQueue ensures the reminder_queue table exists on the given handle.
func NewQueue(db *sql.DB) (*Queue, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminder_queue (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			uid          TEXT    NOT NULL UNIQUE,
			title        TEXT    NOT NULL,
			dose         INTEGER NOT NULL,
			run_at       TEXT    NOT NULL,
			created_at   TEXT    NOT NULL,
			delivered_at TEXT
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder_queue table: %w", err)
	}
	return &Queue{db: db}, nil
}

// Enqueue adds one work item. Every call produces its own independent
// item; there is no de-duplication key.
func (q *Queue) Enqueue(title string, dose int, runAt time.Time) (int64, error) {
	now := time.Now().UTC()

	result, err := q.db.Exec(`
		INSERT INTO reminder_queue (uid, title, dose, run_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), title, dose,
		runAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get enqueued ID: %w", err)
	}
	return id, nil
}

// Due returns the undelivered items whose run time is at or before now,
// oldest run time first.
func (q *Queue) Due(now time.Time) ([]Item, error) {
	rows, err := q.db.Query(`
		SELECT id, uid, title, dose, run_at, created_at, delivered_at
		FROM reminder_queue
		WHERE delivered_at IS NULL AND run_at <= ?
		ORDER BY run_at
	`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Pending returns every undelivered item, soonest first.
func (q *Queue) Pending() ([]Item, error) {
	rows, err := q.db.Query(`
		SELECT id, uid, title, dose, run_at, created_at, delivered_at
		FROM reminder_queue
		WHERE delivered_at IS NULL
		ORDER BY run_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reminders: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Claim marks an item delivered if and only if nobody else has. The
// compare-and-set on delivered_at is what makes delivery exactly-once
// even with overlapping runners.
func (q *Queue) Claim(id int64, now time.Time) (bool, error) {
	result, err := q.db.Exec(`
		UPDATE reminder_queue SET delivered_at = ?
		WHERE id = ? AND delivered_at IS NULL
	`, now.UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return n == 1, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var it Item
		var runAt, createdAt string
		var deliveredAt sql.NullString

		if err := rows.Scan(&it.ID, &it.UID, &it.Title, &it.Dose,
			&runAt, &createdAt, &deliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder item: %w", err)
		}

		it.RunAt, _ = time.Parse(time.RFC3339, runAt)
		it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if deliveredAt.Valid {
			t, err := time.Parse(time.RFC3339, deliveredAt.String)
			if err == nil {
				it.DeliveredAt = &t
			}
		}

		items = append(items, it)
	}
	return items, rows.Err()
}
