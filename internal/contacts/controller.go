package contacts

import (
	"fmt"

	"rhystmorgan/contactbook/internal/models"
)

// DeletePrompt is the question asked before a contact is deleted.
const DeletePrompt = "Are you sure you want to delete this contact?"

// Fields are the three values of the shared contact form.
type Fields struct {
	Name  string
	Phone string
	Email string
}

// Form is the input surface the controller reads and fills.
type Form interface {
	Fields() Fields
	SetFields(f Fields)
	Reset()
	Show()
	Hide()
}

// Confirmer is a synchronous yes/no gate.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a snapshot of the controller.
type State struct {
	Mode          Mode
	Visible       bool
	EditTarget    int64
	HasEditTarget bool

	PendingDelete    int64
	HasPendingDelete bool
}

// Controller runs the form state machine and routes commands to the Store.
//
// Opening via ToggleForm resets the fields and drops any edit target; closing
// via ToggleForm only hides the form. A target left behind by closing is
// dropped by the next open or replaced by the next edit.
type Controller struct {
	store     *Store
	form      Form
	confirmer Confirmer

	visible       bool
	editTarget    int64
	hasEditTarget bool

	pendingDelete    int64
	hasPendingDelete bool
}

type ControllerOption func(*Controller)

// WithConfirmer makes DeleteContact ask c inline. Without a confirmer the
// controller records the request and waits for an AnswerDelete command.
func WithConfirmer(c Confirmer) ControllerOption {
	return func(ctl *Controller) { ctl.confirmer = c }
}

func NewController(store *Store, form Form, opts ...ControllerOption) *Controller {
	ctl := &Controller{store: store, form: form}
	for _, opt := range opts {
		opt(ctl)
	}
	ctl.form.Hide()
	return ctl
}

func (c *Controller) State() State {
	st := State{
		Visible:          c.visible,
		EditTarget:       c.editTarget,
		HasEditTarget:    c.hasEditTarget,
		PendingDelete:    c.pendingDelete,
		HasPendingDelete: c.hasPendingDelete,
	}
	switch {
	case !c.visible:
		st.Mode = ModeClosed
	case c.hasEditTarget:
		st.Mode = ModeEditing
	default:
		st.Mode = ModeCreating
	}
	return st
}

// Dispatch runs cmd to completion. Errors come only from persistence.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd := cmd.(type) {
	case ToggleForm:
		c.toggle()
		return nil
	case EditContact:
		c.edit(cmd.ID)
		return nil
	case SubmitForm:
		return c.submit()
	case DeleteContact:
		return c.requestDelete(cmd.ID)
	case AnswerDelete:
		return c.answerDelete(cmd.Accept)
	case nil:
		return nil
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

func (c *Controller) toggle() {
	if c.visible {
		c.visible = false
		c.form.Hide()
		return
	}
	c.form.Reset()
	c.clearEditTarget()
	c.visible = true
	c.form.Show()
}

func (c *Controller) edit(id int64) {
	contact, ok := c.store.Find(id)
	if !ok {
		return
	}
	c.form.SetFields(Fields{Name: contact.Name, Phone: contact.Phone, Email: contact.Email})
	c.editTarget = contact.ID
	c.hasEditTarget = true
	c.visible = true
	c.form.Show()
}

func (c *Controller) submit() error {
	if !c.visible {
		return nil
	}
	f := c.form.Fields()

	if c.hasEditTarget {
		id := c.editTarget
		if _, err := c.store.Update(id, models.NewContact(id, f.Name, f.Phone, f.Email)); err != nil {
			return err
		}
		c.clearEditTarget()
	} else {
		if _, err := c.store.Create(f.Name, f.Phone, f.Email); err != nil {
			return err
		}
	}

	c.form.Reset()
	c.visible = false
	c.form.Hide()
	return nil
}

func (c *Controller) requestDelete(id int64) error {
	if c.confirmer != nil {
		if !c.confirmer.Confirm(DeletePrompt) {
			return nil
		}
		_, err := c.store.Delete(id)
		return err
	}
	c.pendingDelete = id
	c.hasPendingDelete = true
	return nil
}

func (c *Controller) answerDelete(accept bool) error {
	if !c.hasPendingDelete {
		return nil
	}
	id := c.pendingDelete
	c.pendingDelete = 0
	c.hasPendingDelete = false

	if !accept {
		return nil
	}
	_, err := c.store.Delete(id)
	return err
}

func (c *Controller) clearEditTarget() {
	c.editTarget = 0
	c.hasEditTarget = false
}
