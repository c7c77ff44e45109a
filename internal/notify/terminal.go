package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	alertTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	alertBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	alertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 1)

	alertMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// TerminalSender renders alerts into the daemon's terminal. It is the
// default backend so `healing run` is useful without any push service
// configured.
type TerminalSender struct {
	out io.Writer
}

func NewTerminalSender() *TerminalSender {
	return &TerminalSender{out: os.Stdout}
}

// NewTerminalSenderTo writes alerts to w instead of stdout.
func NewTerminalSenderTo(w io.Writer) *TerminalSender {
	return &TerminalSender{out: w}
}

func (t *TerminalSender) Send(n Notification) error {
	body := alertTitleStyle.Render(n.Title) + "\n" +
		alertBodyStyle.Render(n.Body)

	_, err := fmt.Fprintf(t.out, "\n%s\n%s\n",
		alertBoxStyle.Render(body),
		alertMetaStyle.Render(time.Now().Format("15:04")+" · "+n.ChannelID))
	if err != nil {
		return fmt.Errorf("failed to write terminal notification: %w", err)
	}
	return nil
}
