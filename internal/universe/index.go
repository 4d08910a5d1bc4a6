package universe

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// ErrIndexMismatch means the index does not describe the universe file next to it,
// usually a stale index after a rebuild.
var ErrIndexMismatch = errors.New("index does not match universe")

// Index maps a first-round result to the records holding the candidates it leaves.
// Entry k is the number of records whose key is below k, so key k occupies
// [ix[k], ix[k+1]). It has NumResults+1 entries stored as big-endian uint32.
type Index []uint32

// Key is the result the opening guess receives when h is the secret. The universe file
// is ordered by Key.
func Key(h *handle.Hand) uint32 {
	return handle.Feedback(handle.BestFirst().Hand, *h).Index()
}

// IndexFromCounts turns per-key record counts into an Index.
func IndexFromCounts(counts []uint32) Index {
	ix := make(Index, handle.NumResults+1)
	for k := 0; k < handle.NumResults; k++ {
		ix[k+1] = ix[k] + counts[k]
	}
	return ix
}

// Range returns the record range for first-round result r.
func (ix Index) Range(r handle.Result) (start, end uint32) {
	k := r.Index()
	return ix[k], ix[k+1]
}

// Len is the number of records the index covers.
func (ix Index) Len() int { return int(ix[len(ix)-1]) }

// WriteIndex stores ix at path.
func WriteIndex(path string, ix Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(f, 1<<20)
	if err := binary.Write(w, binary.BigEndian, []uint32(ix)); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadIndex loads the index at path.
func ReadIndex(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ix := make(Index, handle.NumResults+1)
	if st, err := f.Stat(); err != nil {
		return nil, err
	} else if st.Size() != int64(len(ix))*4 {
		return nil, fmt.Errorf("index %s: size %d, want %d", path, st.Size(), len(ix)*4)
	}
	if err := binary.Read(bufio.NewReaderSize(f, 1<<20), binary.BigEndian, []uint32(ix)); err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	for k := 1; k < len(ix); k++ {
		if ix[k] < ix[k-1] {
			return nil, fmt.Errorf("index %s decreases at key %d", path, k)
		}
	}
	return ix, nil
}

// Reindex scans an ordered universe file and rebuilds its index.
func Reindex(path string) (Index, error) {
	hs, err := Load(path)
	if err != nil {
		return nil, err
	}
	counts := make([]uint32, handle.NumResults)
	prev := uint32(0)
	for i := range hs {
		k := Key(&hs[i].Hand)
		if k < prev {
			return nil, fmt.Errorf("record %d: universe not ordered by first-round key", i)
		}
		prev = k
		counts[k]++
	}
	return IndexFromCounts(counts), nil
}
