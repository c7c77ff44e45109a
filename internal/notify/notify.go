// Package notify renders medication reminders as user-visible alerts.
// It owns a single notification channel and fans each alert out to the
// configured delivery backends.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Importance of a notification channel.
type Importance int

const (
	ImportanceDefault Importance = iota
	ImportanceHigh
)

// Channel is a notification category. The medication channel is the
// only one this application registers.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Importance
	Sound       string
	Vibration   bool
}

// MedsChannelID is the fixed identifier of the medication channel.
const MedsChannelID = "meds_channel"

func medsChannel() Channel {
	return Channel{
		ID:          MedsChannelID,
		Name:        "Recordatorios de Medicamentos",
		Description: "Avisos para tomar medicamentos",
		Importance:  ImportanceHigh,
		Sound:       "recuerda",
		Vibration:   true,
	}
}

// Notification is one rendered alert handed to the senders.
type Notification struct {
	ID        int64
	ChannelID string
	Title     string
	Body      string
	Priority  Importance
	Sound     string
}

// Sender delivers a rendered notification over one backend.
type Sender interface {
	Send(n Notification) error
}

// Notifier owns the channel registry and emits alerts. It knows nothing
// about the medication store; everything it shows arrives in the call.
type Notifier struct {
	mu       sync.Mutex
	channels map[string]Channel
	senders  []Sender

	// now is swappable for tests.
	now func() time.Time
}

func NewNotifier(senders ...Sender) *Notifier {
	return &Notifier{
		channels: make(map[string]Channel),
		senders:  senders,
	}
}

// EnsureChannel registers the medication channel if absent. Idempotent
// and safe for concurrent callers.
func (n *Notifier) EnsureChannel() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.channels[MedsChannelID]; !ok {
		n.channels[MedsChannelID] = medsChannel()
	}
}

// Channels returns the registered channels.
func (n *Notifier) Channels() []Channel {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Channel, 0, len(n.channels))
	for _, ch := range n.channels {
		out = append(out, ch)
	}
	return out
}

// Show emits a single reminder alert. The body is deterministic
// ("Tomar {dose} • {title}"); the alert id comes from the current time
// so concurrently fired reminders do not overwrite each other.
func (n *Notifier) Show(title string, dose int) error {
	if title == "" {
		title = "Medicamento"
	}
	return n.emit("¡Recordatorio!", fmt.Sprintf("Tomar %d • %s", dose, title))
}

// ShowSummary emits one aggregated alert covering every pending
// medication of the day. An empty list emits nothing.
func (n *Notifier) ShowSummary(names []string) error {
	if len(names) == 0 {
		return nil
	}

	body := fmt.Sprintf("Tienes %d medicamentos pendientes: %s", len(names), strings.Join(names, ", "))
	if len(names) == 1 {
		body = "Tienes 1 medicamento pendiente: " + names[0]
	}
	return n.emit("Resumen de medicamentos", body)
}

func (n *Notifier) emit(title, body string) error {
	n.EnsureChannel()

	n.mu.Lock()
	ch := n.channels[MedsChannelID]
	senders := n.senders
	n.mu.Unlock()

	notif := Notification{
		ID:        n.clock().UnixNano(),
		ChannelID: ch.ID,
		Title:     title,
		Body:      body,
		Priority:  ch.Importance,
		Sound:     ch.Sound,
	}

	var errs []error
	for _, s := range senders {
		if err := s.Send(notif); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) clock() time.Time {
	if n.now != nil {
		return n.now()
	}
	return time.Now()
}
