package contacts

// Command is a user action routed to the Controller.
type Command interface {
	command()
}

// ToggleForm opens the form blank, or hides it when already open.
type ToggleForm struct{}

// EditContact binds the form to a contact and pre-fills it.
type EditContact struct{ ID int64 }

// SubmitForm saves the form as a new contact or as an edit of the bound one.
type SubmitForm struct{}

// DeleteContact asks for confirmation to delete a contact.
type DeleteContact struct{ ID int64 }

// AnswerDelete answers a pending delete confirmation.
type AnswerDelete struct{ Accept bool }

func (ToggleForm) command()    {}
func (EditContact) command()   {}
func (SubmitForm) command()    {}
func (DeleteContact) command() {}
func (AnswerDelete) command()  {}

// ActionCommand maps a card action, as reported by the list surface, to the
// command it triggers.
func ActionCommand(a Action) Command {
	switch a.Kind {
	case ActionEdit:
		return EditContact{ID: a.ID}
	case ActionDelete:
		return DeleteContact{ID: a.ID}
	default:
		return nil
	}
}
