// Package notes stores free-form notes, newest first.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/healing-app/healing/internal/storage"
)

var (
	ErrNotFound = errors.New("note not found")
	ErrEmpty    = errors.New("note content is empty")
)

// Note is one saved note.
type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides SQLite-backed storage for notes.
type Store struct {
	db  *sql.DB
	hub *storage.Hub
}

func NewStore(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			content    TEXT    NOT NULL,
			created_at TEXT    NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create notes table: %w", err)
	}

	return &Store{db: db, hub: storage.NewHub()}, nil
}

// Add inserts a trimmed note. Blank content is rejected with ErrEmpty.
func (s *Store) Add(content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrEmpty
	}

	result, err := s.db.Exec(`
		INSERT INTO notes (content, created_at) VALUES (?, ?)
	`, content, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID: %w", err)
	}

	s.hub.Broadcast()
	return id, nil
}

// UpdateContent replaces a note's text. Blank replacements are rejected.
func (s *Store) UpdateContent(id int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmpty
	}

	result, err := s.db.Exec(`UPDATE notes SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}

	s.hub.Broadcast()
	return nil
}

// Delete removes a note.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}

	s.hub.Broadcast()
	return nil
}

// All returns every note, newest first.
func (s *Store) All() ([]Note, error) {
	rows, err := s.db.Query(`
		SELECT id, content, created_at FROM notes ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// ObserveAll streams snapshots of the note list: the current state
// immediately, then a fresh snapshot after every mutation. Ends when
// ctx is cancelled.
func (s *Store) ObserveAll(ctx context.Context) <-chan []Note {
	out := make(chan []Note, 1)
	signal, unsubscribe := s.hub.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			all, err := s.All()
			if err != nil {
				log.Printf("[notes] observer query failed: %v", err)
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
