// Package habits tracks the fixed daily-habit checklist and its
// completion progress.
package habits

import (
	"sync"

	"github.com/healing-app/healing/internal/prefs"
)

// Habit is one checklist entry.
type Habit struct {
	ID    string
	Label string
}

// Catalog returns the fixed habit list in display order.
func Catalog() []Habit {
	return []Habit{
		{ID: "agua", Label: "Agua"},
		{ID: "trotar", Label: "Trotar"},
		{ID: "leer", Label: "Leer"},
		{ID: "comer_sano", Label: "Comer Sano"},
		{ID: "ejercicios", Label: "Ejercicios"},
		{ID: "pasear", Label: "Pasear mascota"},
	}
}

// Tracker holds the checked set and persists it through prefs.
type Tracker struct {
	prefs *prefs.Prefs

	mu       sync.Mutex
	selected map[string]bool
}

// NewTracker loads the persisted selection.
func NewTracker(p *prefs.Prefs) *Tracker {
	t := &Tracker{prefs: p, selected: make(map[string]bool)}
	for _, id := range p.SelectedHabits() {
		t.selected[id] = true
	}
	return t
}

// Toggle flips one habit and persists the new selection.
func (t *Tracker) Toggle(id string) error {
	t.mu.Lock()
	if t.selected[id] {
		delete(t.selected, id)
	} else {
		t.selected[id] = true
	}
	ids := t.selectedLocked()
	t.mu.Unlock()

	return t.prefs.SetSelectedHabits(ids)
}

// IsSelected reports whether a habit is checked.
func (t *Tracker) IsSelected(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected[id]
}

// Selected returns the checked habit ids in catalog order.
func (t *Tracker) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectedLocked()
}

func (t *Tracker) selectedLocked() []string {
	var ids []string
	for _, h := range Catalog() {
		if t.selected[h.ID] {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// Progress is the checked fraction of the catalog, in [0, 1].
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(len(t.selected)) / float64(len(Catalog()))
}

// Percent is Progress as a truncated percentage.
func (t *Tracker) Percent() int {
	return int(t.Progress() * 100)
}
