// Package secretbuf provides an owned byte buffer that guarantees its
// storage is overwritten with zeros on release. All key material, raw
// passwords, and plaintext held in memory mode flow through a Secret.
package secretbuf

// Secret owns a byte slice and zeroizes it on Release. The zero value is
// not usable; construct with New or Clone.
type Secret struct {
	data     []byte
	released bool
}

// New takes ownership of b and returns a Secret wrapping it. Callers must
// not retain or mutate b after calling New.
func New(b []byte) *Secret {
	return &Secret{data: b}
}

// Empty returns a zero-length Secret, useful as a placeholder before a
// value is derived.
func Empty() *Secret {
	return &Secret{data: []byte{}}
}

// Bytes returns read-only access to the Secret's contents. The returned
// slice aliases internal storage and must not be retained past Release.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Len returns the number of bytes held.
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Clone returns an independent copy that zeroizes separately.
func (s *Secret) Clone() *Secret {
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return &Secret{data: cp}
}

// Release overwrites the buffer with zeros and drops it, so Len reports 0
// afterwards. Safe to call multiple times and on a nil receiver.
func (s *Secret) Release() {
	if s == nil || s.released {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
	s.released = true
}
