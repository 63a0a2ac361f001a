package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// sealerInfo binds derived keys to this purpose. Changing it invalidates every
// sealed value already in the database.
const sealerInfo = "futurgenie/invitation-secrets/v1"

var ErrSealedTooShort = errors.New("cryptox: sealed value too short")

// Sealer encrypts short secrets at rest with AES-256-GCM. The output is
// base64url([12-byte nonce][ciphertext][16-byte tag]).
type Sealer struct {
	aead      cipher.AEAD
	ephemeral bool
}

// NewSealer derives an AES-256 key from keyMaterial with HKDF-SHA256.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty sealer key material")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, keyMaterial, nil, []byte(sealerInfo)), key); err != nil {
		return nil, fmt.Errorf("cryptox: derive sealer key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// LoadSealer builds a Sealer from, in order of preference:
//  1. the file at path (if path is set)
//  2. envValue (if set)
//  3. a random key, which only lives as long as the process
//
// Values sealed with an ephemeral key cannot be opened after a restart, check
// Ephemeral() and warn accordingly.
func LoadSealer(path, envValue string) (*Sealer, error) {
	var material []byte
	ephemeral := false

	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key file: %w", err)
		}
		material = []byte(strings.TrimSpace(string(data)))
	case envValue != "":
		material = []byte(envValue)
	default:
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("cryptox: generate ephemeral master key: %w", err)
		}
		ephemeral = true
	}

	s, err := NewSealer(material)
	if err != nil {
		return nil, err
	}
	s.ephemeral = ephemeral
	return s, nil
}

// Ephemeral reports whether the key was generated at startup.
func (s *Sealer) Ephemeral() bool { return s.ephemeral }

// Seal encrypts plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptox: generate nonce: %w", err)
	}

	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Tampered or foreign-key values fail authentication.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("cryptox: decode sealed value: %w", err)
	}

	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return "", ErrSealedTooShort
	}

	plaintext, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("cryptox: open sealed value: %w", err)
	}
	return string(plaintext), nil
}
