package secretbuf

import (
	"bytes"
	"testing"
)

func TestReleaseZeroizes(t *testing.T) {
	s := New([]byte{1, 2, 3, 4, 5})
	data := s.Bytes()

	s.Release()

	if !bytes.Equal(data, make([]byte, 5)) {
		t.Error("Release should zero the underlying storage")
	}
	if s.Len() != 0 {
		t.Errorf("Len after Release = %d, want 0", s.Len())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	s := New([]byte{9, 9, 9})
	s.Release()
	s.Release() // must not panic
}

func TestReleaseOnNilIsSafe(t *testing.T) {
	var s *Secret
	s.Release() // must not panic
	if s.Len() != 0 {
		t.Errorf("Len on nil = %d, want 0", s.Len())
	}
	if s.Bytes() != nil {
		t.Error("Bytes on nil should return nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := New([]byte{1, 2, 3})
	clone := original.Clone()

	original.Release()

	if clone.Len() != 3 || !bytes.Equal(clone.Bytes(), []byte{1, 2, 3}) {
		t.Error("releasing the original should not affect an independent clone")
	}
	clone.Release()
}
