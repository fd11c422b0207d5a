package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"rhystmorgan/contactbook/internal/models"
)

// SchemaVersion tags every payload written by Encode.
const SchemaVersion = 1

var (
	// ErrCorrupt means the stored payload is not a contact list.
	ErrCorrupt = errors.New("stored contacts are corrupt")
	// ErrUnsupportedVersion means the payload was written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported contacts format version")
)

type envelope struct {
	Version  int              `json:"version"`
	Contacts []models.Contact `json:"contacts"`
}

// Encode serialises the full list as a versioned envelope.
func Encode(contacts []models.Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	data, err := json.Marshal(envelope{Version: SchemaVersion, Contacts: contacts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contacts: %w", err)
	}
	return data, nil
}

// Decode accepts the versioned envelope and the bare JSON array written by
// earlier releases. Nothing beyond the structural shape is checked.
func Decode(data []byte) ([]models.Contact, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}

	switch trimmed[0] {
	case '[':
		var contacts []models.Contact
		if err := json.Unmarshal(trimmed, &contacts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nonNil(contacts), nil

	case '{':
		var env struct {
			Version  *int             `json:"version"`
			Contacts []models.Contact `json:"contacts"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if env.Version == nil {
			return nil, fmt.Errorf("%w: missing version", ErrCorrupt)
		}
		if *env.Version != SchemaVersion {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *env.Version)
		}
		if env.Contacts == nil {
			return nil, fmt.Errorf("%w: missing contacts", ErrCorrupt)
		}
		return env.Contacts, nil

	default:
		return nil, fmt.Errorf("%w: expected a list or an object", ErrCorrupt)
	}
}

func nonNil(contacts []models.Contact) []models.Contact {
	if contacts == nil {
		return []models.Contact{}
	}
	return contacts
}
