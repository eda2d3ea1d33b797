// Package format defines the on-disk layout constants shared by the
// container codec and the stream pipeline: cipher identifiers, nonce
// sizes, and block/tag sizes. The container carries no magic number or
// version byte — the caller must supply the matching cipher at decrypt
// time.
package format

// Cipher identifies one of the two supported AEAD algorithms. It is never
// written to the container; it exists purely as an in-process selector.
type Cipher int

const (
	// XChaCha20Poly1305 is the default cipher.
	XChaCha20Poly1305 Cipher = iota
	AES256GCM
)

func (c Cipher) String() string {
	switch c {
	case AES256GCM:
		return "AES-256-GCM"
	case XChaCha20Poly1305:
		return "XChaCha20-Poly1305"
	default:
		return "unknown"
	}
}

// NonceLen returns the nonce length in bytes for the cipher: 12 for
// AES-256-GCM, 24 for XChaCha20-Poly1305.
func (c Cipher) NonceLen() int {
	if c == AES256GCM {
		return 12
	}
	return 24
}

// SaltLen is the size in bytes of the per-encryption KDF salt.
const SaltLen = 16

// TagLen is the AEAD authentication tag length appended to every chunk
// and to the whole-file ciphertext in memory mode.
const TagLen = 16

// BlockSize is the plaintext chunk size used by the stream pipeline.
const BlockSize = 1 << 20

// MaxChunks is the hard overflow boundary on the number of chunks a
// stream-mode encryption may produce (2^32 - 1, since the per-chunk nonce
// counter is a 32-bit big-endian suffix of the base nonce).
const MaxChunks = 1<<32 - 1

// AADIntermediate and AADFinal distinguish non-final and final stream
// chunks in the AEAD associated data, so an attacker cannot truncate a
// stream at a chunk boundary and have the tail pass authentication as a
// complete file.
var (
	AADIntermediate = []byte{0x00}
	AADFinal        = []byte{0x01}
)

// HeaderLen returns the total size in bytes of the salt+nonce header for
// the given cipher, used by both memory mode and stream mode.
func HeaderLen(c Cipher) int {
	return SaltLen + c.NonceLen()
}
