// Package prefs is the key-value preferences file: the local account
// record, the login flag, selected habits, and the static emergency
// contact and personal-data cards. One JSON file, written atomically.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// User is the single local account record. The password is stored and
// compared in plaintext; this is explicitly not a security model.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmergencyContact is the static emergency-contact card.
type EmergencyContact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PersonalData is the static personal-record card.
type PersonalData struct {
	Name      string `json:"name"`
	Rut       string `json:"rut"`
	Address   string `json:"address"`
	Blood     string `json:"blood"`
	Allergies string `json:"allergies"`
}

type fileData struct {
	LoggedIn         bool              `json:"is_logged_in"`
	SelectedHabits   []string          `json:"selected_habits,omitempty"`
	User             *User             `json:"user,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	PersonalData     *PersonalData     `json:"personal_data,omitempty"`
}

// Prefs loads the file once and keeps it in memory; every mutation
// rewrites the whole file via temp + rename so a crash never leaves a
// half-written preferences file behind.
type Prefs struct {
	path string

	mu   sync.Mutex
	data fileData
}

// Open reads the preferences at path, creating parent directories as
// needed. A missing file starts empty.
func Open(path string) (*Prefs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	p := &Prefs{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := json.Unmarshal(raw, &p.data); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file %s: %w", path, err)
	}
	return p, nil
}

func (p *Prefs) save() error {
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}

// SetLoggedIn persists the login flag.
func (p *Prefs) SetLoggedIn(v bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.LoggedIn = v
	return p.save()
}

func (p *Prefs) IsLoggedIn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.LoggedIn
}

// SaveUser stores the single account record, replacing any previous one.
func (p *Prefs) SaveUser(u User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.User = &u
	return p.save()
}

// User returns the stored account record, if any.
func (p *Prefs) User() (User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.User == nil {
		return User{}, false
	}
	return *p.data.User, true
}

// ClearUser removes the account record.
func (p *Prefs) ClearUser() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.User = nil
	return p.save()
}

// SetSelectedHabits persists the checked habit ids.
func (p *Prefs) SetSelectedHabits(ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.SelectedHabits = append([]string(nil), ids...)
	return p.save()
}

func (p *Prefs) SelectedHabits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.data.SelectedHabits...)
}

func (p *Prefs) SaveEmergencyContact(c EmergencyContact) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.EmergencyContact = &c
	return p.save()
}

func (p *Prefs) EmergencyContact() (EmergencyContact, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.EmergencyContact == nil {
		return EmergencyContact{}, false
	}
	return *p.data.EmergencyContact, true
}

func (p *Prefs) SavePersonalData(d PersonalData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.PersonalData = &d
	return p.save()
}

func (p *Prefs) PersonalData() (PersonalData, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data.PersonalData == nil {
		return PersonalData{}, false
	}
	return *p.data.PersonalData, true
}
