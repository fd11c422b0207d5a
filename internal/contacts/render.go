package contacts

import "rhystmorgan/contactbook/internal/models"

// EmptyMessage is shown in place of the list when there are no contacts.
const EmptyMessage = "No contacts found. Add your first contact!"

type ActionKind string

const (
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

// Action identifies a card button: which action, on which contact.
type Action struct {
	Kind ActionKind
	ID   int64
}

// Card is one rendered contact together with its two actions.
type Card struct {
	Contact models.Contact
	Edit    Action
	Delete  Action
}

func NewCard(c models.Contact) Card {
	return Card{
		Contact: c,
		Edit:    Action{Kind: ActionEdit, ID: c.ID},
		Delete:  Action{Kind: ActionDelete, ID: c.ID},
	}
}

// Renderer is the display surface. Every render starts with Reset and then
// either one RenderEmpty call or one RenderCard call per contact, in list
// order.
type Renderer interface {
	Reset()
	RenderEmpty(message string)
	RenderCard(card Card)
}

// NopRenderer discards everything. Useful for headless callers.
type NopRenderer struct{}

func (NopRenderer) Reset()             {}
func (NopRenderer) RenderEmpty(string) {}
func (NopRenderer) RenderCard(Card)    {}
