// apps/handle-solver/internal/universe/file.go
//
// Universe file: a flat sequence of 16-byte handle records, written once by `generate`
// and read by every session. A sidecar "<path>.b2" holds the hex blake2b-256 digest of
// the file so a truncated or edited universe is caught before play.
package universe

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// ErrDigestMismatch reports a universe file whose content no longer matches its sidecar.
var ErrDigestMismatch = errors.New("universe digest mismatch")

const progressEvery = 10_000_000

// DigestPath is the sidecar holding the digest of path.
func DigestPath(path string) string { return path + ".b2" }

// Writer appends records and tracks their digest.
type Writer struct {
	path string
	f    *os.File
	w    *bufio.Writer
	sum  hash.Hash
	n    int
}

// Create truncates path and returns a writer for it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	sum, err := blake2b.New256(nil)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{path: path, f: f, w: bufio.NewWriterSize(f, 1<<20), sum: sum}, nil
}

// Write appends one record.
func (w *Writer) Write(h handle.Handle) error {
	r := handle.Encode(h)
	w.sum.Write(r[:])
	if _, err := w.w.Write(r[:]); err != nil {
		return err
	}
	w.n++
	return nil
}

// Len is the number of records written.
func (w *Writer) Len() int { return w.n }

// Close flushes the file and writes the digest sidecar.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	if err := w.f.Close(); err != nil {
		return err
	}
	return os.WriteFile(DigestPath(w.path), []byte(hex.EncodeToString(w.sum.Sum(nil))+"\n"), 0o644)
}

// Count returns the number of records in the file at path.
func Count(path string) (int, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Size()%handle.RecordSize != 0 {
		return 0, fmt.Errorf("%s: size %d is not a whole number of records", path, st.Size())
	}
	return int(st.Size() / handle.RecordSize), nil
}

// checkMemory warns when the decoded universe may not fit in available memory.
func checkMemory(records int) {
	need := uint64(records) * uint64(unsafe.Sizeof(handle.Handle{}))
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug().Err(err).Msg("memory probe failed")
		return
	}
	ev := log.Info()
	if need > vm.Available {
		ev = log.Warn()
	}
	ev.Int("records", records).Uint64("needBytes", need).Uint64("availableBytes", vm.Available).Msg("loading universe")
}

// Load decodes every record of path.
func Load(path string) ([]handle.Handle, error) {
	n, err := Count(path)
	if err != nil {
		return nil, err
	}
	checkMemory(n)
	return LoadRange(path, 0, uint32(n))
}

// LoadRange decodes records [start, end) of path.
func LoadRange(path string, start, end uint32) ([]handle.Handle, error) {
	if end < start {
		return nil, fmt.Errorf("bad range [%d, %d)", start, end)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.Seek(int64(start)*handle.RecordSize, io.SeekStart); err != nil {
		return nil, err
	}

	began := time.Now()
	out := make([]handle.Handle, 0, end-start)
	br := bufio.NewReaderSize(f, 1<<20)
	var r handle.Record
	for i := start; i < end; i++ {
		if _, err := io.ReadFull(br, r[:]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		h, err := handle.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, h)
		if len(out)%progressEvery == 0 {
			log.Info().Int("records", len(out)).Msg("loading")
		}
	}
	log.Debug().Str("path", path).Uint32("start", start).Int("records", len(out)).Dur("took", time.Since(began)).Msg("loaded")
	return out, nil
}

// Digest computes the blake2b-256 of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(sum, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// CheckDigest compares the file against its sidecar.
func CheckDigest(path string) error {
	want, err := os.ReadFile(DigestPath(path))
	if err != nil {
		return fmt.Errorf("read digest: %w", err)
	}
	got, err := Digest(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(want)) != got {
		return fmt.Errorf("%w: %s", ErrDigestMismatch, path)
	}
	return nil
}

// Verify checks the digest and that every record decodes to a complete, canonical hand.
func Verify(path string) (int, error) {
	if err := CheckDigest(path); err != nil {
		return 0, err
	}
	hs, err := Load(path)
	if err != nil {
		return 0, err
	}
	for i := range hs {
		if err := hs[i].Hand.Validate(); err != nil {
			return i, fmt.Errorf("record %d: %w: %v", i, handle.ErrMalformedRecord, err)
		}
	}
	return len(hs), nil
}
