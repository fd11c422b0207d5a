package views

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"rhystmorgan/contactbook/internal/contacts"
)

// TextRenderer writes the list to a plain stream for the non-interactive
// commands. Styled output uses the same cards as the TUI; plain output is
// meant for pipes.
type TextRenderer struct {
	w      io.Writer
	styled bool
}

func NewTextRenderer(w io.Writer, styled bool) *TextRenderer {
	return &TextRenderer{w: w, styled: styled}
}

// Reset is a no-op: a stream cannot be cleared.
func (r *TextRenderer) Reset() {}

func (r *TextRenderer) RenderEmpty(message string) {
	if r.styled {
		message = emptyStyle.Render(message)
	}
	fmt.Fprintln(r.w, message)
}

func (r *TextRenderer) RenderCard(card contacts.Card) {
	if r.styled {
		fmt.Fprintln(r.w, cardStyle.Render(fmt.Sprintf("%s\n%s", fg(Colours.Overlay1).Render(fmt.Sprintf("#%d", card.Contact.ID)), cardBody(card))))
		return
	}
	c := card.Contact
	fmt.Fprintf(r.w, "#%d\nName: %s\nPhone: %s\nEmail: %s\n\n", c.ID, c.Name, c.Phone, c.Email)
}

// PromptConfirmer asks a yes/no question on a terminal stream. Anything but
// y or yes is a no.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
