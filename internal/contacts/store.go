// Package contacts owns the contact book: the in-memory list, and the
// discipline that keeps the persisted copy and the rendered view in step with
// it after every mutation.
package contacts

import (
	"fmt"

	"go.uber.org/zap"

	"rhystmorgan/contactbook/internal/audit"
	"rhystmorgan/contactbook/internal/models"
)

// Persister saves and restores the complete contact list.
type Persister interface {
	LoadContacts() ([]models.Contact, error)
	SaveContacts(contacts []models.Contact) error
}

// Store is the single owner of the contact list. Every mutation persists the
// full list and then re-renders it before returning. It is not safe for
// concurrent use; callers drive it from one event loop.
type Store struct {
	list      models.ContactList
	persister Persister
	renderer  Renderer
	ids       *models.IDSource
	auditor   *audit.ContactAuditor
}

type StoreOption func(*Store)

func WithIDSource(ids *models.IDSource) StoreOption {
	return func(s *Store) { s.ids = ids }
}

func WithAuditor(a *audit.ContactAuditor) StoreOption {
	return func(s *Store) { s.auditor = a }
}

// NewStore hydrates the list from p. A load failure is returned as is: a
// corrupt payload must stop startup rather than be replaced by an empty book.
// NewStore does not render; call Render once the surface is ready.
func NewStore(p Persister, r Renderer, opts ...StoreOption) (*Store, error) {
	if r == nil {
		r = NopRenderer{}
	}
	s := &Store{
		persister: p,
		renderer:  r,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = models.NewIDSource()
	}

	loaded, err := p.LoadContacts()
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	s.list.Contacts = loaded
	s.ids.Seed(s.list.MaxID())

	s.auditor.LogContactAction(audit.AuditActionLoad, 0, zap.Int("count", s.list.Len()))
	return s, nil
}

// Create appends a new contact with a fresh id. Fields are taken as given.
func (s *Store) Create(name, phone, email string) (models.Contact, error) {
	previous := s.list.Clone()
	contact := models.NewContact(s.ids.Next(), name, phone, email)
	s.list.Add(contact)

	if err := s.commit(previous); err != nil {
		return models.Contact{}, err
	}
	s.auditor.LogContactAction(audit.AuditActionCreate, contact.ID)
	return contact, nil
}

// Update replaces the fields of the contact with the given id, keeping its
// position and id. An unknown id is a silent no-op: nothing is saved or
// rendered and ok is false.
func (s *Store) Update(id int64, data models.Contact) (ok bool, err error) {
	existing := s.list.FindByID(id)
	if existing == nil {
		return false, nil
	}
	before := *existing
	previous := s.list.Clone()

	data.ID = id
	s.list.Replace(id, data)

	if err := s.commit(previous); err != nil {
		return true, err
	}
	s.auditor.LogContactChange(before, data)
	return true, nil
}

// Delete removes every contact with the given id. The list is saved and
// rendered even when nothing matched.
func (s *Store) Delete(id int64) (int, error) {
	previous := s.list.Clone()
	removed := s.list.Remove(id)

	if err := s.commit(previous); err != nil {
		return 0, err
	}
	if removed > 0 {
		s.auditor.LogContactAction(audit.AuditActionDelete, id, zap.Int("removed", removed))
	}
	return removed, nil
}

// Render replaces the whole surface with the current list.
func (s *Store) Render() {
	s.renderer.Reset()
	if s.list.Len() == 0 {
		s.renderer.RenderEmpty(EmptyMessage)
		return
	}
	for _, contact := range s.list.Contacts {
		s.renderer.RenderCard(NewCard(contact))
	}
}

// Contacts returns a copy of the list in order.
func (s *Store) Contacts() []models.Contact {
	return s.list.Clone()
}

func (s *Store) Find(id int64) (models.Contact, bool) {
	if c := s.list.FindByID(id); c != nil {
		return *c, true
	}
	return models.Contact{}, false
}

func (s *Store) Len() int {
	return s.list.Len()
}

// commit persists and then renders, in that order. A failed save restores
// previous, so the list always matches what was last persisted, and skips the
// render.
func (s *Store) commit(previous []models.Contact) error {
	if err := s.persister.SaveContacts(s.list.Contacts); err != nil {
		s.list.Contacts = previous
		return fmt.Errorf("failed to save contacts: %w", err)
	}
	s.Render()
	return nil
}
