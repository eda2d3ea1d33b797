// Package container implements the on-disk header codec shared by memory
// mode and stream mode: salt(16) ‖ nonce(12|24). The remainder of the file
// is the body (single ciphertext in memory mode, chunk stream in stream
// mode); container does not know about the body's shape.
package container

import (
	"crypto/rand"
	"io"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/pkg/format"
)

// Header holds the salt and nonce generated for one encryption.
type Header struct {
	Salt  []byte
	Nonce []byte
}

// NewHeader generates a fresh random salt and base nonce for c.
func NewHeader(c format.Cipher) (*Header, error) {
	salt := make([]byte, format.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errs.Wrap("NewHeader", errs.KindInternalError, "failed to generate salt", err)
	}
	nonce := make([]byte, c.NonceLen())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errs.Wrap("NewHeader", errs.KindInternalError, "failed to generate nonce", err)
	}
	return &Header{Salt: salt, Nonce: nonce}, nil
}

// Write emits salt then nonce to w.
func (h *Header) Write(w io.Writer) error {
	if _, err := w.Write(h.Salt); err != nil {
		return errs.Wrap("Write", errs.KindIoError, "failed to write salt", err)
	}
	if _, err := w.Write(h.Nonce); err != nil {
		return errs.Wrap("Write", errs.KindIoError, "failed to write nonce", err)
	}
	return nil
}

// ReadHeader reads exactly SaltLen bytes then c.NonceLen() bytes from r.
// A short read at either step is rejected as MalformedContainer.
func ReadHeader(r io.Reader, c format.Cipher) (*Header, error) {
	salt := make([]byte, format.SaltLen)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, errs.Wrap("ReadHeader", errs.KindMalformedContainer, "failed to read salt", err)
	}
	nonce := make([]byte, c.NonceLen())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, errs.Wrap("ReadHeader", errs.KindMalformedContainer, "failed to read nonce", err)
	}
	return &Header{Salt: salt, Nonce: nonce}, nil
}

// NextNonce derives the per-chunk nonce for stream mode chunk index idx by
// treating the last 4 bytes of the base nonce as a big-endian counter and
// adding idx. idx must be < format.MaxChunks; callers are responsible for
// the StreamTooLong check before calling NextNonce for idx ==
// format.MaxChunks.
func (h *Header) NextNonce(idx uint32) []byte {
	out := make([]byte, len(h.Nonce))
	copy(out, h.Nonce)

	tail := out[len(out)-4:]
	counter := uint32(tail[0])<<24 | uint32(tail[1])<<16 | uint32(tail[2])<<8 | uint32(tail[3])
	counter += idx
	tail[0] = byte(counter >> 24)
	tail[1] = byte(counter >> 16)
	tail[2] = byte(counter >> 8)
	tail[3] = byte(counter)
	return out
}
