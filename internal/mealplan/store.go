// Package mealplan stores the weekly meal plan: one entry per
// (weekday, meal type) slot, plus URI bookkeeping for meal photos.
package mealplan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/healing-app/healing/internal/storage"
)

// Meal types, in plan order.
const (
	Breakfast = "Desayuno"
	Lunch     = "Almuerzo"
	Snack     = "Snack"
	Dinner    = "Cena"
)

// MealTypes lists the valid meal types in display order.
func MealTypes() []string {
	return []string{Breakfast, Lunch, Snack, Dinner}
}

var (
	ErrEmpty      = errors.New("meal description is empty")
	ErrInvalidDay = errors.New("day of week must be in 1..7")
)

// Entry is one slot of the weekly plan. DayOfWeek is 1 (Monday) through
// 7 (Sunday).
type Entry struct {
	ID          int64  `json:"id"`
	DayOfWeek   int    `json:"day_of_week"`
	MealType    string `json:"meal_type"`
	Description string `json:"description"`
}

// Store provides SQLite-backed storage for the meal plan.
type Store struct {
	db  *sql.DB
	hub *storage.Hub
}

func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS meals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			day_of_week INTEGER NOT NULL,
			meal_type   TEXT    NOT NULL,
			description TEXT    NOT NULL,
			UNIQUE (day_of_week, meal_type)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create meals table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS meal_images (
			day_of_week INTEGER NOT NULL,
			meal_type   TEXT    NOT NULL,
			uri         TEXT    NOT NULL,
			PRIMARY KEY (day_of_week, meal_type)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal_images table: %w", err)
	}

	return &Store{db: db, hub: storage.NewHub()}, nil
}

// Set upserts the entry for a (weekday, meal type) slot; a second Set on
// the same slot replaces its description.
func (s *Store) Set(dayOfWeek int, mealType, description string) error {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return ErrInvalidDay
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrEmpty
	}

	_, err := s.db.Exec(`
		INSERT INTO meals (day_of_week, meal_type, description)
		VALUES (?, ?, ?)
		ON CONFLICT (day_of_week, meal_type)
		DO UPDATE SET description = excluded.description
	`, dayOfWeek, mealType, description)
	if err != nil {
		return fmt.Errorf("failed to upsert meal: %w", err)
	}

	s.hub.Broadcast()
	return nil
}

// DeleteByKey clears a slot. Clearing an empty slot is a no-op.
func (s *Store) DeleteByKey(dayOfWeek int, mealType string) error {
	_, err := s.db.Exec(`
		DELETE FROM meals WHERE day_of_week = ? AND meal_type = ?
	`, dayOfWeek, mealType)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	s.hub.Broadcast()
	return nil
}

// All returns the full plan ordered by (weekday, meal type).
func (s *Store) All() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, day_of_week, meal_type, description
		FROM meals ORDER BY day_of_week, meal_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByDay returns one weekday's entries ordered by meal type.
func (s *Store) ByDay(dayOfWeek int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, day_of_week, meal_type, description
		FROM meals WHERE day_of_week = ? ORDER BY meal_type
	`, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals by day: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ObserveAll streams snapshots of the whole plan, same contract as the
// other observing stores.
func (s *Store) ObserveAll(ctx context.Context) <-chan []Entry {
	out := make(chan []Entry, 1)
	signal, unsubscribe := s.hub.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			all, err := s.All()
			if err != nil {
				log.Printf("[mealplan] observer query failed: %v", err)
			} else {
				select {
				case out <- all:
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

// SaveImage records the photo URI for a slot, replacing any previous one.
// Only the URI string is kept; the file itself is the caller's business.
func (s *Store) SaveImage(dayOfWeek int, mealType, uri string) error {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return ErrInvalidDay
	}

	_, err := s.db.Exec(`
		INSERT INTO meal_images (day_of_week, meal_type, uri)
		VALUES (?, ?, ?)
		ON CONFLICT (day_of_week, meal_type)
		DO UPDATE SET uri = excluded.uri
	`, dayOfWeek, mealType, uri)
	if err != nil {
		return fmt.Errorf("failed to save meal image: %w", err)
	}
	return nil
}

// ImageFor returns the stored photo URI for a slot, or "" and false.
func (s *Store) ImageFor(dayOfWeek int, mealType string) (string, bool, error) {
	var uri string
	err := s.db.QueryRow(`
		SELECT uri FROM meal_images WHERE day_of_week = ? AND meal_type = ?
	`, dayOfWeek, mealType).Scan(&uri)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get meal image: %w", err)
	}
	return uri, true, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.DayOfWeek, &e.MealType, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
