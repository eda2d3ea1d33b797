package filehash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileAndHasherAgree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.bin")
	content := []byte("encrypted-looking bytes, but plain for this test")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fromFile, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	h := NewHasher()
	if _, err := h.Write(content); err != nil {
		t.Fatalf("Hasher.Write: %v", err)
	}
	fromHasher := h.SumHex()

	if fromFile != fromHasher {
		t.Errorf("File() = %s, Hasher = %s, want equal digests", fromFile, fromHasher)
	}
	if len(fromFile) != 64 {
		t.Errorf("hex digest length = %d, want 64 (32-byte BLAKE3)", len(fromFile))
	}
}

func TestDifferentContentDifferentHash(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.bin")
	pathB := filepath.Join(dir, "b.bin")
	os.WriteFile(pathA, []byte("content a"), 0o600)
	os.WriteFile(pathB, []byte("content b"), 0o600)

	hashA, err := File(pathA)
	if err != nil {
		t.Fatalf("File(a): %v", err)
	}
	hashB, err := File(pathB)
	if err != nil {
		t.Fatalf("File(b): %v", err)
	}
	if hashA == hashB {
		t.Error("different file contents should hash differently")
	}
}
