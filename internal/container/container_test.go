package container

import (
	"bytes"
	"testing"

	"github.com/sealfile/sealfile/pkg/format"
)

func TestHeaderWriteReadRoundTrip(t *testing.T) {
	for _, c := range []format.Cipher{format.XChaCha20Poly1305, format.AES256GCM} {
		t.Run(c.String(), func(t *testing.T) {
			h, err := NewHeader(c)
			if err != nil {
				t.Fatalf("NewHeader: %v", err)
			}
			if len(h.Salt) != format.SaltLen {
				t.Errorf("salt length = %d, want %d", len(h.Salt), format.SaltLen)
			}
			if len(h.Nonce) != c.NonceLen() {
				t.Errorf("nonce length = %d, want %d", len(h.Nonce), c.NonceLen())
			}

			var buf bytes.Buffer
			if err := h.Write(&buf); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if buf.Len() != format.HeaderLen(c) {
				t.Errorf("written length = %d, want %d", buf.Len(), format.HeaderLen(c))
			}

			got, err := ReadHeader(&buf, c)
			if err != nil {
				t.Fatalf("ReadHeader: %v", err)
			}
			if !bytes.Equal(got.Salt, h.Salt) || !bytes.Equal(got.Nonce, h.Nonce) {
				t.Error("round-tripped header does not match original")
			}
		})
	}
}

func TestNewHeaderIsUnique(t *testing.T) {
	h1, err := NewHeader(format.XChaCha20Poly1305)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h2, err := NewHeader(format.XChaCha20Poly1305)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	if bytes.Equal(h1.Salt, h2.Salt) {
		t.Error("salts should be unique across headers")
	}
	if bytes.Equal(h1.Nonce, h2.Nonce) {
		t.Error("base nonces should be unique across headers")
	}
}

func TestReadHeaderRejectsShortInput(t *testing.T) {
	if _, err := ReadHeader(bytes.NewReader([]byte{1, 2, 3}), format.AES256GCM); err == nil {
		t.Fatal("ReadHeader should fail on truncated input")
	}
}

func TestNextNonceIncrementsTailCounter(t *testing.T) {
	h := &Header{Nonce: bytes.Repeat([]byte{0x00}, 12)}

	n0 := h.NextNonce(0)
	n1 := h.NextNonce(1)
	n2 := h.NextNonce(2)

	if bytes.Equal(n0, n1) || bytes.Equal(n1, n2) {
		t.Error("successive chunk nonces must differ")
	}
	if !bytes.Equal(n0[:8], n1[:8]) || !bytes.Equal(n1[:8], n2[:8]) {
		t.Error("only the last 4 bytes of the nonce should change between chunks")
	}
	if n1[11] != 1 || n2[11] != 2 {
		t.Errorf("counter tail = %d,%d want 1,2", n1[11], n2[11])
	}
}
