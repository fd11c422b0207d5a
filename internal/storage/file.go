package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot stores each key as <dir>/<key>.json.
type FileSlot struct {
	dataDir string
}

func NewFileSlot(dataDir string) (*FileSlot, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSlot{dataDir: dataDir}, nil
}

func (s *FileSlot) Path(key string) string {
	return filepath.Join(s.dataDir, key+".json")
}

func (s *FileSlot) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileSlot) Set(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(key), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileSlot) Close() error {
	return nil
}
