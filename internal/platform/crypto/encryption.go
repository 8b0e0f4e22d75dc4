package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Service seals values with AES-256-GCM. Without a key it passes values
// through unchanged, so development setups need no key.
type Service struct {
	aead cipher.AEAD
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s != nil && s.aead != nil
}

// Encrypt returns nonce||ciphertext.
func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if !s.Configured() {
		return plain, nil
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Service) Decrypt(sealed []byte) ([]byte, error) {
	if !s.Configured() {
		return sealed, nil
	}
	size := s.aead.NonceSize()
	if len(sealed) < size {
		return nil, ErrCiphertextTooShort
	}
	return s.aead.Open(nil, sealed[:size], sealed[size:], nil)
}

func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
