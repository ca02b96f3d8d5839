package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// sealInfo binds derived keys to this use.
const sealInfo = "rentdesk session storage v1"

// ErrEmptySecret is returned when a SealedStorage is built without a secret.
var ErrEmptySecret = errors.New("session: secret is required")

// SealedStorage encrypts the payload with ChaCha20-Poly1305 before handing
// it to the wrapped Storage. The stored form is nonce || ciphertext.
type SealedStorage struct {
	inner Storage
	aead  cipher.AEAD
}

// NewSealedStorage wraps inner. The key is derived from secret with
// HKDF-SHA256.
func NewSealedStorage(inner Storage, secret string) (*SealedStorage, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("session: derive key: %w", err)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("session: init cipher: %w", err)
	}
	return &SealedStorage{inner: inner, aead: aead}, nil
}

// Load reads and decrypts the payload. A payload that fails
// authentication yields domain.ErrSessionCorrupt.
func (s *SealedStorage) Load(ctx context.Context) ([]byte, error) {
	sealed, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, domain.ErrSessionCorrupt.WithDetails("sealed payload too short")
	}

	plain, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], []byte(Key))
	if err != nil {
		return nil, domain.ErrSessionCorrupt.WithCause(err)
	}
	return plain, nil
}

// Save encrypts data under a fresh random nonce.
func (s *SealedStorage) Save(ctx context.Context, data []byte) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(data)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("session: generate nonce: %w", err)
	}
	return s.inner.Save(ctx, s.aead.Seal(nonce, nonce, data, []byte(Key)))
}

// Remove deletes the payload from the wrapped storage.
func (s *SealedStorage) Remove(ctx context.Context) error {
	return s.inner.Remove(ctx)
}
