// Package archive packs a directory tree into a zip container whose file
// entries are bzip2-compressed, and unpacks one back into a directory.
// Directory entries are written uncompressed with a trailing slash so
// empty subdirectories survive the round trip.
package archive

import (
	"archive/zip"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/internal/prompt"
)

// bzip2Method is the PKWARE-assigned zip compression method id for BZIP2.
const bzip2Method = 12

func init() {
	zip.RegisterCompressor(bzip2Method, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: defaultLevel})
	})
	zip.RegisterDecompressor(bzip2Method, func(r io.Reader) io.ReadCloser {
		rc, err := bzip2.NewReader(r, nil)
		if err != nil {
			return errReadCloser{err}
		}
		return rc
	})
}

// defaultLevel is mutated by PackOptions.Level just before each Pack call
// since archive/zip's RegisterCompressor signature carries no per-call
// context; Pack is not safe to call concurrently with a different level
// as a result.
var defaultLevel = 6

type errReadCloser struct{ err error }

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error             { return nil }

// PackOptions configures directory enumeration and compression.
type PackOptions struct {
	Recursive   bool
	Exclude     []string
	Level       int // 1-9, default 6
}

// RandomSuffix returns an 8-character hex suffix for temporary archive
// paths so concurrent invocations never collide on the same filename.
func RandomSuffix() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", errs.Wrap("RandomSuffix", errs.KindInternalError, "failed to generate random suffix", err)
	}
	return hex.EncodeToString(b), nil
}

// Pack writes a zip archive of inputDir to archivePath.
func Pack(inputDir, archivePath string, opts PackOptions) error {
	level := opts.Level
	if level < 1 || level > 9 {
		level = 6
	}
	defaultLevel = level

	entries, err := walk(inputDir, opts.Recursive, opts.Exclude)
	if err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return errs.Wrap("Pack", errs.KindIoError, "failed to create archive file", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	for _, e := range entries {
		var addErr error
		if e.isDir {
			addErr = addDir(zw, e)
		} else {
			addErr = addFile(zw, e)
		}
		if addErr != nil {
			zw.Close()
			return addErr
		}
	}

	if err := zw.Close(); err != nil {
		return errs.Wrap("Pack", errs.KindIoError, "failed to finalize archive", err)
	}
	return nil
}

func addFile(zw *zip.Writer, e entry) error {
	header := &zip.FileHeader{
		Name:   e.relPath,
		Method: bzip2Method,
	}
	header.SetMode(0o755)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errs.Wrap("addFile", errs.KindIoError, "failed to add archive entry", err)
	}

	in, err := os.Open(e.fsPath)
	if err != nil {
		return errs.Wrap("addFile", errs.KindIoError, "failed to open file for archiving", err)
	}
	defer in.Close()

	if _, err := io.Copy(w, in); err != nil {
		return errs.Wrap("addFile", errs.KindIoError, "failed to write archive entry", err)
	}
	return nil
}

// addDir writes a zero-length directory entry so empty subdirectories
// round-trip through the archive. Directory entries are stored, not
// bzip2-compressed, since they carry no content.
func addDir(zw *zip.Writer, e entry) error {
	name := e.relPath
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	}
	header.SetMode(0o755 | os.ModeDir)

	if _, err := zw.CreateHeader(header); err != nil {
		return errs.Wrap("addDir", errs.KindIoError, "failed to add directory entry", err)
	}
	return nil
}

// UnpackOptions configures extraction behavior.
type UnpackOptions struct {
	HidePrompts bool
}

// Unpack extracts archivePath's entries into outputDir, creating it if
// necessary. Every resolved entry path is validated against outputDir;
// an entry that would escape it (e.g. via "../" in its name) is rejected
// with errs.KindPathTraversal rather than written outside outputDir.
func Unpack(archivePath, outputDir string, opts UnpackOptions) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return errs.Wrap("Unpack", errs.KindIoError, "failed to open archive", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errs.Wrap("Unpack", errs.KindIoError, "failed to create output directory", err)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return errs.Wrap("Unpack", errs.KindIoError, "failed to resolve output directory", err)
	}

	for _, f := range zr.File {
		target := filepath.Join(absOut, filepath.FromSlash(f.Name))
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return errs.Wrap("Unpack", errs.KindIoError, "failed to resolve entry path", err)
		}
		if absTarget != absOut && !strings.HasPrefix(absTarget, absOut+string(os.PathSeparator)) {
			return errs.New("Unpack", errs.KindPathTraversal, "archive entry escapes output directory: "+f.Name)
		}

		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(absTarget, 0o755); err != nil {
				return errs.Wrap("Unpack", errs.KindIoError, "failed to create directory", err)
			}
			continue
		}

		if err := extractFile(f, absTarget, opts); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string, opts UnpackOptions) error {
	if _, statErr := os.Stat(target); statErr == nil {
		ok, err := prompt.Confirm(os.Stdin, os.Stdout, target+" already exists, overwrite?", true, opts.HidePrompts)
		if err != nil {
			return errs.Wrap("extractFile", errs.KindIoError, "failed to read overwrite confirmation", err)
		}
		if !ok {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errs.Wrap("extractFile", errs.KindIoError, "failed to create parent directory", err)
	}

	r, err := f.Open()
	if err != nil {
		return errs.Wrap("extractFile", errs.KindIoError, "failed to open archive entry", err)
	}
	defer r.Close()

	out, err := os.Create(target)
	if err != nil {
		return errs.Wrap("extractFile", errs.KindIoError, "failed to create extracted file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return errs.Wrap("extractFile", errs.KindIoError, "failed to write extracted file", err)
	}
	return nil
}
