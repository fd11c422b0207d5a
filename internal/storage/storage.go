package storage

import (
	"fmt"

	"rhystmorgan/contactbook/internal/config"
	"rhystmorgan/contactbook/internal/models"
)

// DefaultKey is the slot the contact book lives under.
const DefaultKey = "contacts"

// Storage persists the whole contact list into a single slot, overwriting it
// on every save.
type Storage struct {
	slot Slot
	key  string
}

func NewStorage(slot Slot, key string) (*Storage, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return &Storage{slot: slot, key: key}, nil
}

// Open builds the storage described by cfg. A non-empty passphrase seals the
// slot.
func Open(cfg config.Storage, passphrase string) (*Storage, error) {
	var (
		slot Slot
		err  error
	)

	switch cfg.Backend {
	case config.BackendFile, "":
		slot, err = NewFileSlot(cfg.Dir)
	case config.BackendSQLite:
		slot, err = NewSQLiteSlot(cfg.Dir)
	case config.BackendMemory:
		slot = NewMemorySlot()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if passphrase != "" {
		slot = NewSealedSlot(slot, passphrase)
	}

	s, err := NewStorage(slot, cfg.Key)
	if err != nil {
		slot.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) Key() string {
	return s.key
}

// LoadContacts returns the stored list, or an empty list when nothing has been
// saved yet. A payload that is present but malformed is an error.
func (s *Storage) LoadContacts() ([]models.Contact, error) {
	data, ok, err := s.slot.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	if !ok {
		return []models.Contact{}, nil
	}

	contacts, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
	}
	return contacts, nil
}

func (s *Storage) SaveContacts(contacts []models.Contact) error {
	data, err := Encode(contacts)
	if err != nil {
		return err
	}
	if err := s.slot.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to write contacts: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.slot.Close()
}
