package notify

import (
	"fmt"

	"github.com/gregdel/pushover"
)

// PushoverSender delivers alerts through the Pushover push service, the
// one backend that reaches a phone without a device-resident process.
type PushoverSender struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

func NewPushoverSender(apiToken, userKey string) (*PushoverSender, error) {
	if apiToken == "" || userKey == "" {
		return nil, fmt.Errorf("pushover requires both an API token and a user key")
	}

	return &PushoverSender{
		app:       pushover.New(apiToken),
		recipient: pushover.NewRecipient(userKey),
	}, nil
}

func (p *PushoverSender) Send(n Notification) error {
	msg := &pushover.Message{
		Title:   n.Title,
		Message: n.Body,
		Sound:   pushoverSound(n.Sound),
	}
	if n.Priority == ImportanceHigh {
		msg.Priority = pushover.PriorityHigh
	}

	if _, err := p.app.SendMessage(msg, p.recipient); err != nil {
		return fmt.Errorf("failed to send pushover message: %w", err)
	}
	return nil
}

// pushoverSound maps the channel's sound asset onto Pushover's fixed
// sound catalog.
func pushoverSound(sound string) string {
	if sound == "" {
		return ""
	}
	return pushover.SoundAlien
}
