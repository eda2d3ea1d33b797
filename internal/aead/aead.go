// Package aead provides a uniform authenticated-encryption surface over
// AES-256-GCM and XChaCha20-Poly1305, so the pipeline packages never
// branch on cipher choice themselves.
package aead

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/pkg/format"
)

// AEAD wraps a cipher.AEAD bound to a specific key, exposing only the
// two operations the pipeline needs: seal a chunk, open a chunk.
type AEAD struct {
	aead   cipher.AEAD
	cipher format.Cipher
}

// New constructs an AEAD for the given cipher and 32-byte key.
func New(c format.Cipher, key []byte) (*AEAD, error) {
	var a cipher.AEAD
	var err error

	switch c {
	case format.AES256GCM:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err != nil {
			return nil, errs.Wrap("New", errs.KindCipherError, "failed to create AES cipher", err)
		}
		a, err = cipher.NewGCM(block)
	case format.XChaCha20Poly1305:
		a, err = chacha20poly1305.NewX(key)
	default:
		return nil, errs.New("New", errs.KindInternalError, "unknown cipher")
	}
	if err != nil {
		return nil, errs.Wrap("New", errs.KindCipherError, "failed to construct AEAD", err)
	}

	return &AEAD{aead: a, cipher: c}, nil
}

// NonceSize returns the nonce length this AEAD expects.
func (a *AEAD) NonceSize() int {
	return a.aead.NonceSize()
}

// Overhead returns the authentication tag length (16 for both ciphers).
func (a *AEAD) Overhead() int {
	return a.aead.Overhead()
}

// Encrypt seals plaintext under nonce and aad, returning
// ciphertext‖tag. aad may be nil.
func (a *AEAD) Encrypt(nonce, aad, plaintext []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, errs.New("Encrypt", errs.KindInternalError, "nonce length mismatch")
	}
	return a.aead.Seal(nil, nonce, plaintext, aad), nil
}

// Decrypt opens ciphertext‖tag under nonce and aad. Any authentication
// failure — tamper, wrong key, or wrong cipher — surfaces identically as
// KindAuthenticationFailed; no partial plaintext is ever returned.
func (a *AEAD) Decrypt(nonce, aad, sealed []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, errs.New("Decrypt", errs.KindInternalError, "nonce length mismatch")
	}
	plaintext, err := a.aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, errs.Wrap("Decrypt", errs.KindAuthenticationFailed, "authentication failed", err)
	}
	return plaintext, nil
}
