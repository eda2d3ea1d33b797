// Package erase implements secure multi-pass file erasure: n passes of
// cryptographically random data, one pass of zeros, truncate, then
// unlink. Every overwrite pass writes the file's full size, not just a
// fixed-capacity buffer, so a file larger than one buffer is not left
// mostly untouched.
package erase

import (
	"bufio"
	"crypto/rand"
	"io"
	"os"

	"github.com/sealfile/sealfile/internal/errs"
)

// DefaultPasses is the default number of random-overwrite passes.
const DefaultPasses = 16

// chunkSize is the buffered write granularity for each overwrite pass.
const chunkSize = 64 * 1024

// Erase overwrites path's current contents with passes rounds of random
// bytes, then one round of zero bytes, truncates it to zero length, and
// removes it. On failure the file may be partially overwritten and may or
// may not remain on disk — this is an accepted tradeoff of the security
// goal, not a bug to be recovered from.
func Erase(path string, passes int) error {
	info, err := os.Stat(path)
	if err != nil {
		return errs.Wrap("Erase", errs.KindIoError, "failed to stat file", err)
	}
	size := info.Size()

	for i := 0; i < passes; i++ {
		if err := overwrite(path, size, randomFiller); err != nil {
			return err
		}
	}

	if err := overwrite(path, size, zeroFiller); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errs.Wrap("Erase", errs.KindIoError, "failed to open file for truncation", err)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return errs.Wrap("Erase", errs.KindIoError, "failed to truncate file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errs.Wrap("Erase", errs.KindIoError, "failed to flush truncated file", err)
	}
	if err := f.Close(); err != nil {
		return errs.Wrap("Erase", errs.KindIoError, "failed to close truncated file", err)
	}

	if err := os.Remove(path); err != nil {
		return errs.Wrap("Erase", errs.KindIoError, "failed to remove file", err)
	}
	return nil
}

// filler fills buf with the bytes for one write chunk of a pass.
type filler func(buf []byte) error

func randomFiller(buf []byte) error {
	_, err := io.ReadFull(rand.Reader, buf)
	return err
}

func zeroFiller(buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

// overwrite writes exactly size bytes to path, each chunk produced by
// fill, then flushes. Every chunk write is sliced down to the bytes
// still remaining for that pass, so the final partial chunk never spills
// past size or gets padded with stale buffer contents.
func overwrite(path string, size int64, fill filler) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errs.Wrap("overwrite", errs.KindIoError, "failed to open file for overwrite", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, chunkSize)
	buf := make([]byte, chunkSize)

	var written int64
	for written < size {
		n := chunkSize
		if remaining := size - written; remaining < int64(n) {
			n = int(remaining)
		}
		if err := fill(buf[:n]); err != nil {
			return errs.Wrap("overwrite", errs.KindIoError, "failed to fill overwrite buffer", err)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return errs.Wrap("overwrite", errs.KindIoError, "failed to write overwrite pass", err)
		}
		written += int64(n)
	}

	if err := w.Flush(); err != nil {
		return errs.Wrap("overwrite", errs.KindIoError, "failed to flush overwrite pass", err)
	}
	return f.Sync()
}
