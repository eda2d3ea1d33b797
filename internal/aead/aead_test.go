package aead

import (
	"bytes"
	"testing"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/pkg/format"
)

func TestRoundTrip(t *testing.T) {
	ciphers := []format.Cipher{format.XChaCha20Poly1305, format.AES256GCM}

	for _, c := range ciphers {
		t.Run(c.String(), func(t *testing.T) {
			key := bytes.Repeat([]byte{0x07}, 32)
			a, err := New(c, key)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			nonce := bytes.Repeat([]byte{0x01}, a.NonceSize())
			plaintext := []byte("the quick brown fox jumps over the lazy dog")

			sealed, err := a.Encrypt(nonce, format.AADFinal, plaintext)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if len(sealed) != len(plaintext)+a.Overhead() {
				t.Errorf("sealed length = %d, want %d", len(sealed), len(plaintext)+a.Overhead())
			}

			opened, err := a.Decrypt(nonce, format.AADFinal, sealed)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("Decrypt = %q, want %q", opened, plaintext)
			}
		})
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, 32)
	a, err := New(format.XChaCha20Poly1305, key)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	nonce := bytes.Repeat([]byte{0x02}, a.NonceSize())
	sealed, err := a.Encrypt(nonce, format.AADFinal, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	sealed[0] ^= 0xFF

	if _, err := a.Decrypt(nonce, format.AADFinal, sealed); err == nil {
		t.Fatal("Decrypt of tampered ciphertext should fail")
	} else if errs.KindOf(err) != errs.KindAuthenticationFailed {
		t.Errorf("error kind = %s, want %s", errs.KindOf(err), errs.KindAuthenticationFailed)
	}
}

func TestDecryptRejectsWrongAAD(t *testing.T) {
	key := bytes.Repeat([]byte{0x0A}, 32)
	a, err := New(format.AES256GCM, key)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	nonce := bytes.Repeat([]byte{0x03}, a.NonceSize())
	sealed, err := a.Encrypt(nonce, format.AADIntermediate, []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := a.Decrypt(nonce, format.AADFinal, sealed); err == nil {
		t.Fatal("Decrypt with mismatched AAD should fail")
	}
}
