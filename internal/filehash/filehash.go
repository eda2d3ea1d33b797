// Package filehash computes a BLAKE3 content hash over an encrypted
// artifact, either by reading a finished file or incrementally as a
// sealfile pipeline writes it, so callers can print a hash of the
// ciphertext alongside the encrypt/decrypt result.
package filehash

import (
	"encoding/hex"
	"io"
	"os"

	"lukechampine.com/blake3"

	"github.com/sealfile/sealfile/internal/errs"
)

// Hasher is an io.Writer that accumulates a BLAKE3 digest; pass it as the
// hashSink to pipeline.EncryptFile to hash the artifact in the same pass
// that writes it, avoiding a second read of the file.
type Hasher struct {
	h *blake3.Hasher
}

// NewHasher returns a fresh Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New(32, nil)}
}

func (hs *Hasher) Write(p []byte) (int, error) {
	return hs.h.Write(p)
}

// SumHex returns the hex-encoded 32-byte digest accumulated so far.
func (hs *Hasher) SumHex() string {
	return hex.EncodeToString(hs.h.Sum(nil))
}

// File computes the BLAKE3 digest of an existing file on disk, for
// standalone "hash" command invocations.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errs.Wrap("File", errs.KindIoError, "failed to open file", err)
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", errs.Wrap("File", errs.KindIoError, "failed to read file", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
