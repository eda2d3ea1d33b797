package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), []byte("file a"))
	writeFile(t, filepath.Join(src, "sub", "b.txt"), []byte("file b, nested"))
	writeFile(t, filepath.Join(src, "skip.tmp"), []byte("should be excluded"))

	if err := os.Symlink(filepath.Join(src, "a.txt"), filepath.Join(src, "a-link.txt")); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := Pack(src, archivePath, PackOptions{Recursive: true, Exclude: []string{"*.tmp"}, Level: 6}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	outDir := t.TempDir()
	if err := Unpack(archivePath, outDir, UnpackOptions{HidePrompts: true}); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile a.txt: %v", err)
	}
	if string(got) != "file a" {
		t.Errorf("a.txt contents = %q", got)
	}

	gotNested, err := os.ReadFile(filepath.Join(outDir, "sub", "b.txt"))
	if err != nil {
		t.Fatalf("ReadFile sub/b.txt: %v", err)
	}
	if string(gotNested) != "file b, nested" {
		t.Errorf("sub/b.txt contents = %q", gotNested)
	}

	if _, err := os.Stat(filepath.Join(outDir, "skip.tmp")); !os.IsNotExist(err) {
		t.Error("skip.tmp should have been excluded from the archive")
	}
	if _, err := os.Stat(filepath.Join(outDir, "a-link.txt")); !os.IsNotExist(err) {
		t.Error("symlinks should never be packed")
	}
}

func TestPackNonRecursiveSkipsSubdirectories(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "top.txt"), []byte("top level"))
	writeFile(t, filepath.Join(src, "sub", "nested.txt"), []byte("nested"))

	archivePath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := Pack(src, archivePath, PackOptions{Recursive: false}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	outDir := t.TempDir()
	if err := Unpack(archivePath, outDir, UnpackOptions{HidePrompts: true}); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "top.txt")); err != nil {
		t.Errorf("top.txt should be present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "sub", "nested.txt")); !os.IsNotExist(err) {
		t.Error("non-recursive pack should not have descended into sub/")
	}
}

func TestPackEmitsDirectoryEntriesWithMode(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "sub", "leaf.txt"), []byte("leaf"))
	if err := os.MkdirAll(filepath.Join(src, "empty"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := Pack(src, archivePath, PackOptions{Recursive: true}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer zr.Close()

	var sawEmptyDir, sawFileMode bool
	for _, f := range zr.File {
		switch f.Name {
		case "empty/":
			sawEmptyDir = true
			if mode := f.Mode().Perm(); mode != 0o755 {
				t.Errorf("empty/ mode = %o, want 0755", mode)
			}
		case "sub/leaf.txt":
			if mode := f.Mode().Perm(); mode == 0o755 {
				sawFileMode = true
			}
		}
	}
	if !sawEmptyDir {
		t.Error("archive should contain an explicit entry for the empty directory")
	}
	if !sawFileMode {
		t.Error("file entry should carry mode 0755")
	}

	outDir := t.TempDir()
	if err := Unpack(archivePath, outDir, UnpackOptions{HidePrompts: true}); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if info, err := os.Stat(filepath.Join(outDir, "empty")); err != nil || !info.IsDir() {
		t.Errorf("empty directory did not round-trip: %v", err)
	}
}

func TestUnpackRejectsPathTraversal(t *testing.T) {
	// Craft a zip with a traversal entry directly so Unpack's guard can be
	// exercised without relying on Pack ever producing one.
	traversalArchive := filepath.Join(t.TempDir(), "evil.zip")
	writeTraversalZip(t, traversalArchive)

	outDir := t.TempDir()
	err := Unpack(traversalArchive, outDir, UnpackOptions{HidePrompts: true})
	if err == nil {
		t.Fatal("Unpack should reject an entry that escapes the output directory")
	}
}

func writeTraversalZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("../../etc/evil.txt")
	if err != nil {
		t.Fatalf("zip Create entry: %v", err)
	}
	if _, err := w.Write([]byte("escaped")); err != nil {
		t.Fatalf("zip entry write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
}
