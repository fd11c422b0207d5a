package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// Slot is a durable key-value location. Get reports ok=false when nothing has
// been stored under key yet.
type Slot interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
	Close() error
}

// ErrInvalidKey indicates a slot key is empty or contains path components.
var ErrInvalidKey = errors.New("storage: invalid slot key")

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || key != filepath.Base(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// MemorySlot keeps values in process memory.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (s *MemorySlot) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemorySlot) Set(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.values[key] = stored
	return nil
}

func (s *MemorySlot) Close() error {
	return nil
}
