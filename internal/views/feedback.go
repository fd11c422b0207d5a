package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackError   FeedbackType = "error"
	FeedbackInfo    FeedbackType = "info"
)

const feedbackDuration = 3 * time.Second

// FeedbackMessage is a transient status line shown under the list.
type FeedbackMessage struct {
	Type    FeedbackType
	Message string
	seq     int
}

// FeedbackTimeoutMsg clears the feedback with the matching sequence number.
// Older timeouts are ignored so a fresh message is not cut short.
type FeedbackTimeoutMsg struct {
	seq int
}

func feedbackTimeout(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FeedbackTimeoutMsg{seq: seq}
	})
}

func (f *FeedbackMessage) View() string {
	if f == nil {
		return ""
	}

	var color string
	switch f.Type {
	case FeedbackSuccess:
		color = Colours.Green
	case FeedbackError:
		color = Colours.Red
	case FeedbackInfo:
		color = Colours.Blue
	default:
		color = Colours.Text
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(Colours.Surface0)).
		Padding(0, 1).
		Bold(true).
		Render(f.Message)
}
