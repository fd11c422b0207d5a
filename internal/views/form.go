package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rhystmorgan/contactbook/internal/contacts"
)

type FormField int

const (
	FormFieldName FormField = iota
	FormFieldPhone
	FormFieldEmail
	formFieldCount
)

var formLabels = [formFieldCount]string{"Name", "Phone", "Email"}

// FormModel is the shared create/edit form. The controller drives what it
// holds and whether it is shown; the app forwards keystrokes to it.
type FormModel struct {
	inputs  [formFieldCount]textinput.Model
	focused FormField
	visible bool
	editing bool
}

func NewFormModel() *FormModel {
	f := &FormModel{}
	placeholders := [formFieldCount]string{"Full name", "Phone number", "name@example.com"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 100
		in.Prompt = "> "
		in.PromptStyle = fg(Colours.Blue)
		in.TextStyle = fg(Colours.Text)
		f.inputs[i] = in
	}
	return f
}

func (f *FormModel) Fields() contacts.Fields {
	return contacts.Fields{
		Name:  f.inputs[FormFieldName].Value(),
		Phone: f.inputs[FormFieldPhone].Value(),
		Email: f.inputs[FormFieldEmail].Value(),
	}
}

func (f *FormModel) SetFields(v contacts.Fields) {
	f.inputs[FormFieldName].SetValue(v.Name)
	f.inputs[FormFieldPhone].SetValue(v.Phone)
	f.inputs[FormFieldEmail].SetValue(v.Email)
}

func (f *FormModel) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
}

func (f *FormModel) Show() {
	f.visible = true
	f.focus(FormFieldName)
}

func (f *FormModel) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *FormModel) Visible() bool {
	return f.visible
}

// SetEditing switches the title between "New Contact" and "Edit Contact".
func (f *FormModel) SetEditing(editing bool) {
	f.editing = editing
}

func (f *FormModel) Focused() FormField {
	return f.focused
}

func (f *FormModel) NextField() {
	f.focus((f.focused + 1) % formFieldCount)
}

func (f *FormModel) PrevField() {
	f.focus((f.focused + formFieldCount - 1) % formFieldCount)
}

func (f *FormModel) focus(field FormField) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focused = field
	f.inputs[field].Focus()
}

// Update feeds a message to the focused input.
func (f *FormModel) Update(msg tea.Msg) tea.Cmd {
	if !f.visible {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *FormModel) View() string {
	if !f.visible {
		return ""
	}

	title := "New Contact"
	if f.editing {
		title = "Edit Contact"
	}

	var b strings.Builder
	b.WriteString(fg(Colours.Lavender).Bold(true).Render(title))
	b.WriteString("\n\n")
	for i := range f.inputs {
		label := labelStyle.Render(formLabels[i] + ":")
		if FormField(i) == f.focused {
			label = fg(Colours.Blue).Bold(true).Render(formLabels[i] + ":")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(controlStyle.Render("[Tab] Next field  [Enter] Save  [Esc] Close"))

	return formStyle.Render(b.String())
}
