package medication

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/healing-app/healing/internal/storage"
)

// ErrNotFound is returned when a medication id has no row.
var ErrNotFound = errors.New("medication not found")

// Store provides SQLite-backed storage for medications. All mutations
// are durable before they return, and every mutation signals the live
// day/range observers.
type Store struct {
	db  *sql.DB
	hub *storage.Hub
}

// NewStore ensures the medications table exists on the given handle.
func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS medications (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT    NOT NULL,
			dose_count     INTEGER NOT NULL,
			date_epoch_day INTEGER NOT NULL,
			hour           INTEGER NOT NULL,
			minute         INTEGER NOT NULL,
			taken          INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create medications table: %w", err)
	}

	return &Store{db: db, hub: storage.NewHub()}, nil
}

// Insert persists a new medication and returns its assigned id.
func (s *Store) Insert(m Medication) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO medications (name, dose_count, date_epoch_day, hour, minute, taken)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.Name, m.DoseCount, m.DateEpochDay, m.Hour, m.Minute, boolToInt(m.Taken))
	if err != nil {
		return 0, fmt.Errorf("failed to insert medication: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID: %w", err)
	}

	s.hub.Broadcast()
	return id, nil
}

// Update replaces the full row keyed by m.ID.
func (s *Store) Update(m Medication) error {
	result, err := s.db.Exec(`
		UPDATE medications
		SET name = ?, dose_count = ?, date_epoch_day = ?, hour = ?, minute = ?, taken = ?
		WHERE id = ?
	`, m.Name, m.DoseCount, m.DateEpochDay, m.Hour, m.Minute, boolToInt(m.Taken), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("medication %d: %w", m.ID, ErrNotFound)
	}

	s.hub.Broadcast()
	return nil
}

// Delete removes the row for the given id. Deleting a medication does
// not touch any reminder already enqueued for it; the queued payload was
// captured at schedule time and still fires.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM medications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("medication %d: %w", id, ErrNotFound)
	}

	s.hub.Broadcast()
	return nil
}

// SetTaken flips only the taken flag, leaving every other field as-is.
func (s *Store) SetTaken(id int64, taken bool) error {
	result, err := s.db.Exec(`UPDATE medications SET taken = ? WHERE id = ?`, boolToInt(taken), id)
	if err != nil {
		return fmt.Errorf("failed to set taken flag: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("medication %d: %w", id, ErrNotFound)
	}

	s.hub.Broadcast()
	return nil
}

// GetByID returns a single medication, or ErrNotFound.
func (s *Store) GetByID(id int64) (*Medication, error) {
	row := s.db.QueryRow(`
		SELECT id, name, dose_count, date_epoch_day, hour, minute, taken
		FROM medications WHERE id = ?
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("medication %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return m, nil
}

// ByDay returns a snapshot of one day's medications ordered by time of day.
func (s *Store) ByDay(day int64) ([]Medication, error) {
	rows, err := s.db.Query(`
		SELECT id, name, dose_count, date_epoch_day, hour, minute, taken
		FROM medications WHERE date_epoch_day = ?
		ORDER BY hour, minute
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications by day: %w", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

// ByRange returns a snapshot of the medications with day in [start, end],
// ordered by (day, hour, minute). Bounds are inclusive.
func (s *Store) ByRange(start, end int64) ([]Medication, error) {
	rows, err := s.db.Query(`
		SELECT id, name, dose_count, date_epoch_day, hour, minute, taken
		FROM medications WHERE date_epoch_day BETWEEN ? AND ?
		ORDER BY date_epoch_day, hour, minute
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications by range: %w", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

// ObserveByDay streams snapshots of one day's medications: the current
// state immediately, then a fresh snapshot after every table mutation.
// The stream ends when ctx is cancelled.
func (s *Store) ObserveByDay(ctx context.Context, day int64) <-chan []Medication {
	return s.observe(ctx, func() ([]Medication, error) { return s.ByDay(day) })
}

// ObserveByRange streams snapshots of a day range, same contract as
// ObserveByDay.
func (s *Store) ObserveByRange(ctx context.Context, start, end int64) <-chan []Medication {
	return s.observe(ctx, func() ([]Medication, error) { return s.ByRange(start, end) })
}

func (s *Store) observe(ctx context.Context, query func() ([]Medication, error)) <-chan []Medication {
	out := make(chan []Medication, 1)
	signal, unsubscribe := s.hub.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			meds, err := query()
			if err != nil {
				log.Printf("[medication] observer query failed: %v", err)
			} else {
				select {
				case out <- meds:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func scanMedications(rows *sql.Rows) ([]Medication, error) {
	var meds []Medication
	for rows.Next() {
		var m Medication
		var taken int

		if err := rows.Scan(&m.ID, &m.Name, &m.DoseCount,
			&m.DateEpochDay, &m.Hour, &m.Minute, &taken); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}

		m.Taken = taken != 0
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func scanMedication(row *sql.Row) (*Medication, error) {
	var m Medication
	var taken int

	if err := row.Scan(&m.ID, &m.Name, &m.DoseCount,
		&m.DateEpochDay, &m.Hour, &m.Minute, &taken); err != nil {
		return nil, err
	}

	m.Taken = taken != 0
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
