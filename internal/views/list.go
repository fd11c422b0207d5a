package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactbook/internal/contacts"
)

// ListModel is the card list. It is the Store's renderer: the Store rebuilds
// it after every mutation, and the app moves the selection over it.
type ListModel struct {
	cards    []contacts.Card
	empty    string
	selected int
	width    int
}

func NewListModel() *ListModel {
	return &ListModel{}
}

func (l *ListModel) Reset() {
	l.cards = l.cards[:0]
	l.empty = ""
}

func (l *ListModel) RenderEmpty(message string) {
	l.empty = message
}

func (l *ListModel) RenderCard(card contacts.Card) {
	l.cards = append(l.cards, card)
}

func (l *ListModel) Len() int {
	return len(l.cards)
}

// Selected returns the card under the cursor.
func (l *ListModel) Selected() (contacts.Card, bool) {
	l.clamp()
	if len(l.cards) == 0 {
		return contacts.Card{}, false
	}
	return l.cards[l.selected], true
}

func (l *ListModel) MoveUp() {
	l.clamp()
	if l.selected > 0 {
		l.selected--
	}
}

func (l *ListModel) MoveDown() {
	l.clamp()
	if l.selected < len(l.cards)-1 {
		l.selected++
	}
}

func (l *ListModel) SetWidth(w int) {
	l.width = w
}

// clamp keeps the cursor on a card after the list shrank underneath it.
func (l *ListModel) clamp() {
	if l.selected >= len(l.cards) {
		l.selected = len(l.cards) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *ListModel) View() string {
	l.clamp()
	if len(l.cards) == 0 {
		return emptyStyle.Render(l.empty)
	}

	items := make([]string, 0, len(l.cards))
	for i, card := range l.cards {
		items = append(items, l.renderCard(card, i == l.selected))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (l *ListModel) renderCard(card contacts.Card, isSelected bool) string {
	style := cardStyle
	if isSelected {
		style = selectedCardStyle
	}
	if l.width > 4 {
		style = style.Width(l.width - 4)
	}
	return style.Render(cardBody(card))
}

func cardBody(card contacts.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Name:"), card.Contact.Name)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Phone:"), card.Contact.Phone)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Email:"), card.Contact.Email)
	b.WriteString(editButtonStyle.Render("[E]dit"))
	b.WriteString("  ")
	b.WriteString(deleteButtonStyle.Render("[D]elete"))
	return b.String()
}
