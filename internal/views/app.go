package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"rhystmorgan/contactbook/internal/contacts"
)

// AppModel is the root bubbletea model. Keys become contacts commands; the
// Store re-renders the list model synchronously inside Update.
type AppModel struct {
	store      *contacts.Store
	controller *contacts.Controller
	list       *ListModel
	form       *FormModel
	confirm    *ConfirmModel
	logger     *zap.Logger

	width  int
	height int

	feedback    *FeedbackMessage
	feedbackSeq int
	err         error
}

// NewAppModel wires the form and modal to a controller over store. list must
// be the renderer store was built with.
func NewAppModel(store *contacts.Store, list *ListModel, logger *zap.Logger) *AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	form := NewFormModel()
	m := &AppModel{
		store:   store,
		list:    list,
		form:    form,
		confirm: NewConfirmModel(),
		logger:  logger.Named("tui"),
	}
	m.controller = contacts.NewController(store, form)
	store.Render()
	return m
}

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(msg.Width)
		return m, nil

	case FeedbackTimeoutMsg:
		if m.feedback != nil && m.feedback.seq == msg.seq {
			m.feedback = nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.confirm.Visible():
			return m.updateConfirm(msg)
		case m.form.Visible():
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, m.form.Update(msg)
}

func (m *AppModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "ctrl+n":
		return m, m.dispatch(contacts.ToggleForm{}, "", "")
	case "up", "k":
		m.list.MoveUp()
	case "down", "j":
		m.list.MoveDown()
	case "e", "enter":
		if card, ok := m.list.Selected(); ok {
			return m, m.dispatch(contacts.ActionCommand(card.Edit), "", "")
		}
	case "d", "delete":
		if card, ok := m.list.Selected(); ok {
			return m, m.dispatch(contacts.ActionCommand(card.Delete), "", "")
		}
	}
	return m, nil
}

func (m *AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+n":
		return m, m.dispatch(contacts.ToggleForm{}, "", "")
	case "enter":
		return m, m.dispatch(contacts.SubmitForm{}, FeedbackSuccess, "Contact saved")
	case "tab", "down":
		m.form.NextField()
		return m, nil
	case "shift+tab", "up":
		m.form.PrevField()
		return m, nil
	}
	return m, m.form.Update(msg)
}

func (m *AppModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.dispatch(contacts.AnswerDelete{Accept: true}, FeedbackSuccess, "Contact deleted")
	case "n", "N", "esc":
		return m, m.dispatch(contacts.AnswerDelete{Accept: false}, FeedbackInfo, "Delete cancelled")
	}
	return m, nil
}

// dispatch runs cmd and brings the surfaces in line with the controller. On
// success the given feedback is shown, if any; a failure shows an error banner
// and keeps the error under the controls until the next successful command.
func (m *AppModel) dispatch(cmd contacts.Command, kind FeedbackType, message string) tea.Cmd {
	err := m.controller.Dispatch(cmd)

	st := m.controller.State()
	m.form.SetEditing(st.Mode == contacts.ModeEditing)
	if st.HasPendingDelete {
		contact, known := m.store.Find(st.PendingDelete)
		m.confirm.Show(contact, known)
	} else {
		m.confirm.Hide()
	}

	if err != nil {
		m.logger.Error("command failed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(err))
		m.err = err
		return m.showFeedback(FeedbackError, "Changes were not saved")
	}
	m.err = nil
	if message == "" {
		return nil
	}
	return m.showFeedback(kind, message)
}

func (m *AppModel) showFeedback(t FeedbackType, message string) tea.Cmd {
	m.feedbackSeq++
	m.feedback = &FeedbackMessage{Type: t, Message: message, seq: m.feedbackSeq}
	return feedbackTimeout(m.feedbackSeq, feedbackDuration)
}

func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	title := "Contacts"
	if n := m.store.Len(); n > 0 {
		title += fmt.Sprintf(" (%d)", n)
	}
	content.WriteString(headerStyle.Width(m.width).Render(title))
	content.WriteString("\n")

	content.WriteString(m.list.View())
	content.WriteString("\n")

	if m.form.Visible() {
		content.WriteString(m.form.View())
		content.WriteString("\n")
	}
	if m.confirm.Visible() {
		content.WriteString(m.confirm.View())
		content.WriteString("\n")
	}
	if m.feedback != nil {
		content.WriteString(m.feedback.View())
		content.WriteString("\n")
	}

	content.WriteString(controlStyle.Render(m.controls()))

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %s", m.err.Error())))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(content.String())
}

func (m *AppModel) controls() string {
	switch {
	case m.confirm.Visible():
		return "[Y]es  [N]o"
	case m.form.Visible():
		return "[Tab] Next  [Enter] Save  [Esc] Close  [Ctrl+C] Quit"
	default:
		return "[N]ew  [↑/↓] Select  [E]dit  [D]elete  [Q]uit"
	}
}
