package models

import (
	"sync"
	"time"
)

type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ContactList is the ordered contact book. Order is insertion order and is
// never changed by edits.
type ContactList struct {
	Contacts []Contact `json:"contacts"`
}

func NewContact(id int64, name, phone, email string) Contact {
	return Contact{
		ID:    id,
		Name:  name,
		Phone: phone,
		Email: email,
	}
}

func (cl *ContactList) Add(contact Contact) {
	cl.Contacts = append(cl.Contacts, contact)
}

// Replace overwrites the contact with the given id in place. The stored
// record keeps id regardless of contact.ID.
func (cl *ContactList) Replace(id int64, contact Contact) bool {
	i := cl.Index(id)
	if i < 0 {
		return false
	}
	contact.ID = id
	cl.Contacts[i] = contact
	return true
}

// Remove drops every contact with the given id and reports how many went.
func (cl *ContactList) Remove(id int64) int {
	kept := cl.Contacts[:0]
	removed := 0
	for _, contact := range cl.Contacts {
		if contact.ID == id {
			removed++
			continue
		}
		kept = append(kept, contact)
	}
	// Zero the tail so removed records are not retained by the backing array.
	for i := len(kept); i < len(cl.Contacts); i++ {
		cl.Contacts[i] = Contact{}
	}
	cl.Contacts = kept
	return removed
}

func (cl *ContactList) Index(id int64) int {
	for i, contact := range cl.Contacts {
		if contact.ID == id {
			return i
		}
	}
	return -1
}

func (cl *ContactList) FindByID(id int64) *Contact {
	if i := cl.Index(id); i >= 0 {
		return &cl.Contacts[i]
	}
	return nil
}

func (cl *ContactList) Len() int {
	return len(cl.Contacts)
}

// Clone returns a copy that shares no backing array with cl.
func (cl *ContactList) Clone() []Contact {
	out := make([]Contact, len(cl.Contacts))
	copy(out, cl.Contacts)
	return out
}

// MaxID returns the largest id in the list, or 0 when empty.
func (cl *ContactList) MaxID() int64 {
	var max int64
	for _, contact := range cl.Contacts {
		if contact.ID > max {
			max = contact.ID
		}
	}
	return max
}

// IDSource hands out timestamp-derived contact ids. Ids are milliseconds since
// the epoch, bumped past the last issued id when the clock has not advanced.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

// NewIDSourceWithClock is NewIDSource with an injectable clock.
func NewIDSourceWithClock(now func() time.Time) *IDSource {
	return &IDSource{now: now}
}

// Seed makes sure every later id is greater than floor.
func (s *IDSource) Seed(floor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if floor > s.last {
		s.last = floor
	}
}

func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
