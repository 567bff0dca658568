package main

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/aead/subtle"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// HKDF-SHA256 output, used as the ChaCha20-Poly1305 key
	KeyLen   = chacha20poly1305.KeySize
	SaltLen  = 32
	NonceLen = chacha20poly1305.NonceSize
	TagLen   = chacha20poly1305.Overhead
)

// deriveKey derives the bundle key from a password using HKDF-SHA256 with no info
func deriveKey(password, salt []byte) ([]byte, error) {
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, password, salt, nil), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext under a key derived from password. Every call
// draws a fresh salt and nonce.
func Seal(plaintext, password []byte) (*Bundle, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key)

	primitive, err := subtle.NewChaCha20Poly1305(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}

	// Tink generates the nonce and lays the output out as nonce || ciphertext || tag
	sealed, err := primitive.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}
	if len(sealed) != NonceLen+len(plaintext)+TagLen {
		return nil, fmt.Errorf("unexpected sealed length %d", len(sealed))
	}

	return &Bundle{
		Ciphertext: bytes.Clone(sealed[NonceLen : len(sealed)-TagLen]),
		Salt:       salt,
		Nonce:      bytes.Clone(sealed[:NonceLen]),
		Tag:        bytes.Clone(sealed[len(sealed)-TagLen:]),
	}, nil
}

// Open verifies the bundle's tag and returns the plaintext. Every
// verification failure, including a malformed nonce or tag, is reported as
// ErrAuthenticationFailure.
func Open(bundle *Bundle, password []byte) ([]byte, error) {
	if bundle == nil || len(bundle.Nonce) != NonceLen || len(bundle.Tag) != TagLen {
		return nil, ErrAuthenticationFailure
	}

	key, err := deriveKey(password, bundle.Salt)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key)

	primitive, err := subtle.NewChaCha20Poly1305(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}

	sealed := make([]byte, 0, NonceLen+len(bundle.Ciphertext)+TagLen)
	sealed = append(sealed, bundle.Nonce...)
	sealed = append(sealed, bundle.Ciphertext...)
	sealed = append(sealed, bundle.Tag...)

	plaintext, err := primitive.Decrypt(sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}
