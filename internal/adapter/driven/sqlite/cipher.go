package sqlite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// sealer encrypts secret column values with AES-256-GCM. The stored form is
// base64(nonce || ciphertext || tag). Empty plaintext is stored as the empty
// string without touching the key.
type sealer struct {
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

func (s sealer) seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if s.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	gcm, err := s.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s sealer) open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	if s.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := s.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (s sealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

// sealCredentials encrypts a credential map as one JSON document.
func (s sealer) sealCredentials(c model.Credentials) (string, error) {
	if len(c) == 0 {
		return "", nil
	}
	data, err := json.Marshal(c.Plain())
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	return s.seal(string(data))
}

// openCredentials reverses sealCredentials. An empty column yields an empty map.
func (s sealer) openCredentials(encoded string) (model.Credentials, error) {
	plaintext, err := s.open(encoded)
	if err != nil {
		return nil, err
	}
	if plaintext == "" {
		return model.Credentials{}, nil
	}
	var plain map[string]string
	if err := json.Unmarshal([]byte(plaintext), &plain); err != nil {
		return nil, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return model.CredentialsFromPlain(plain), nil
}
