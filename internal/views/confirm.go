package views

import (
	"strings"

	"rhystmorgan/contactbook/internal/contacts"
	"rhystmorgan/contactbook/internal/models"
)

// ConfirmModel is the delete confirmation modal.
type ConfirmModel struct {
	visible bool
	contact models.Contact
	known   bool
}

func NewConfirmModel() *ConfirmModel {
	return &ConfirmModel{}
}

// Show opens the modal for a contact. known is false when the id no longer
// matches a contact; the question is asked anyway.
func (c *ConfirmModel) Show(contact models.Contact, known bool) {
	c.visible = true
	c.contact = contact
	c.known = known
}

func (c *ConfirmModel) Hide() {
	c.visible = false
	c.contact = models.Contact{}
	c.known = false
}

func (c *ConfirmModel) Visible() bool {
	return c.visible
}

func (c *ConfirmModel) View() string {
	if !c.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(fg(Colours.Red).Bold(true).Render("Delete Contact"))
	b.WriteString("\n\n")
	b.WriteString(fg(Colours.Text).Render(contacts.DeletePrompt))
	if c.known {
		b.WriteString("\n")
		b.WriteString(fg(Colours.Subtext0).Render(c.contact.Name))
	}
	b.WriteString("\n\n")
	b.WriteString(controlStyle.Render("[Y]es  [N]o"))

	return modalStyle.Render(b.String())
}
