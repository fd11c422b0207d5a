package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLength   = 32
	nonceLength = 12
	saltLength  = 32
	iterations  = 100000
)

// ErrWrongPassphrase is returned when sealed data cannot be opened, either
// because the passphrase differs or the ciphertext was altered.
var ErrWrongPassphrase = errors.New("invalid passphrase or corrupted data")

type EncryptedData struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// SealedSlot encrypts values with a passphrase before handing them to the
// wrapped slot. Each write uses a fresh salt and nonce.
type SealedSlot struct {
	inner      Slot
	passphrase string
}

func NewSealedSlot(inner Slot, passphrase string) *SealedSlot {
	return &SealedSlot{inner: inner, passphrase: passphrase}
}

func (s *SealedSlot) Get(key string) ([]byte, bool, error) {
	raw, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}

	var enc EncryptedData
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal sealed %s: %w", key, err)
	}
	data, err := Decrypt(&enc, s.passphrase)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open sealed %s: %w", key, err)
	}
	return data, true, nil
}

func (s *SealedSlot) Set(key string, data []byte) error {
	enc, err := Encrypt(data, s.passphrase)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	raw, err := json.Marshal(enc)
	if err != nil {
		return fmt.Errorf("failed to marshal sealed %s: %w", key, err)
	}
	return s.inner.Set(key, raw)
}

func (s *SealedSlot) Close() error {
	return s.inner.Close()
}

func Encrypt(data []byte, passphrase string) (*EncryptedData, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	aesGCM, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return &EncryptedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesGCM.Seal(nil, nonce, data, nil),
	}, nil
}

func Decrypt(encData *EncryptedData, passphrase string) ([]byte, error) {
	if encData == nil {
		return nil, errors.New("encrypted data is nil")
	}
	if len(encData.Nonce) != nonceLength {
		return nil, ErrWrongPassphrase
	}

	aesGCM, err := newGCM(passphrase, encData.Salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, encData.Nonce, encData.Ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
