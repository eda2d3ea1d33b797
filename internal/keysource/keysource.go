// Package keysource acquires the raw key material fed to the KDF: either
// an interactively-prompted password (with confirmation on encryption) or
// the full contents of a keyfile.
package keysource

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/internal/secretbuf"
)

// Source acquires raw key material for encryption or decryption.
type Source interface {
	// AcquireForEncrypt is used when writing a new file: passwords are
	// prompted twice and compared for equality.
	AcquireForEncrypt() (*secretbuf.Secret, error)
	// AcquireForDecrypt is used when reading an existing file: passwords
	// are prompted once.
	AcquireForDecrypt() (*secretbuf.Secret, error)
}

// PasswordSource reads a password from the terminal without echo.
type PasswordSource struct {
	// Stdin/Stdout default to os.Stdin/os.Stdout; overridable for tests.
	Stdin  *os.File
	Stdout *os.File
}

func (p *PasswordSource) stdin() *os.File {
	if p.Stdin != nil {
		return p.Stdin
	}
	return os.Stdin
}

func (p *PasswordSource) stdout() *os.File {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p *PasswordSource) read(prompt string) (*secretbuf.Secret, error) {
	fmt.Fprint(p.stdout(), prompt)
	raw, err := term.ReadPassword(int(p.stdin().Fd()))
	fmt.Fprintln(p.stdout())
	if err != nil {
		return nil, errs.Wrap("PasswordSource", errs.KindIoError, "failed to read password", err)
	}
	return secretbuf.New(raw), nil
}

// AcquireForEncrypt prompts twice and rejects mismatched or empty input.
func (p *PasswordSource) AcquireForEncrypt() (*secretbuf.Secret, error) {
	first, err := p.read("Password: ")
	if err != nil {
		return nil, err
	}
	if first.Len() == 0 {
		first.Release()
		return nil, errs.New("AcquireForEncrypt", errs.KindEmptyPassword, "password must not be empty")
	}

	second, err := p.read("Confirm password: ")
	if err != nil {
		first.Release()
		return nil, err
	}
	defer second.Release()

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		first.Release()
		return nil, errs.New("AcquireForEncrypt", errs.KindKeyMismatch, "passwords did not match")
	}
	return first, nil
}

// AcquireForDecrypt prompts once.
func (p *PasswordSource) AcquireForDecrypt() (*secretbuf.Secret, error) {
	secret, err := p.read("Password: ")
	if err != nil {
		return nil, err
	}
	if secret.Len() == 0 {
		secret.Release()
		return nil, errs.New("AcquireForDecrypt", errs.KindEmptyPassword, "password must not be empty")
	}
	return secret, nil
}

// KeyfileSource reads the entirety of a file as the raw key material.
type KeyfileSource struct {
	Path string
}

func (k *KeyfileSource) read() (*secretbuf.Secret, error) {
	data, err := os.ReadFile(k.Path)
	if err != nil {
		return nil, errs.Wrap("KeyfileSource", errs.KindIoError, "failed to read keyfile", err)
	}
	if len(data) == 0 {
		return nil, errs.New("KeyfileSource", errs.KindEmptyKeyfile, "keyfile must not be empty")
	}
	return secretbuf.New(data), nil
}

// AcquireForEncrypt reads the keyfile; there is no confirmation step for
// keyfiles since there is nothing for the user to mistype.
func (k *KeyfileSource) AcquireForEncrypt() (*secretbuf.Secret, error) {
	return k.read()
}

// AcquireForDecrypt reads the keyfile.
func (k *KeyfileSource) AcquireForDecrypt() (*secretbuf.Secret, error) {
	return k.read()
}
