package handle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// RecordSize is the width of one persisted handle.
const RecordSize = 16

// Record is the packed form of a Handle: a 128-bit big-endian word with
//
//	bits [0, 8)    flags
//	bits [8, 92)   14 hand slots of 6 bits, slot 0 lowest
//	bits [92, 126) pool, kind k at bit 92+k
//	bits [126,128) zero
type Record [RecordSize]byte

const (
	flagsOffset = 0
	handOffset  = 8
	slotWidth   = 6
	poolOffset  = handOffset + HandSize*slotWidth
	usedBits    = poolOffset + tile.NumKinds
)

// ErrMalformedRecord reports a record that does not decode to a valid handle.
var ErrMalformedRecord = errors.New("malformed handle record")

// word is the record as a 128-bit value split into halves.
type word struct{ hi, lo uint64 }

func (r *Record) word() word {
	return word{hi: binary.BigEndian.Uint64(r[:8]), lo: binary.BigEndian.Uint64(r[8:])}
}

func (w word) record() Record {
	var r Record
	binary.BigEndian.PutUint64(r[:8], w.hi)
	binary.BigEndian.PutUint64(r[8:], w.lo)
	return r
}

// field extracts width (< 64) bits at bit offset off.
func (w word) field(off, width uint) uint64 {
	mask := uint64(1)<<width - 1
	switch {
	case off >= 64:
		return (w.hi >> (off - 64)) & mask
	case off+width <= 64:
		return (w.lo >> off) & mask
	default:
		return (w.lo>>off | w.hi<<(64-off)) & mask
	}
}

// set ORs v into the field at off; the field must be clear.
func (w *word) set(off, width uint, v uint64) {
	v &= uint64(1)<<width - 1
	switch {
	case off >= 64:
		w.hi |= v << (off - 64)
	case off+width <= 64:
		w.lo |= v << off
	default:
		w.lo |= v << off
		w.hi |= v >> (64 - off)
	}
}

// Encode packs the handle.
func Encode(h Handle) Record {
	var w word
	w.set(flagsOffset, 8, uint64(h.Flags))
	for i, k := range h.Hand {
		w.set(handOffset+uint(i)*slotWidth, slotWidth, uint64(k))
	}
	w.set(poolOffset, tile.NumKinds, uint64(h.Pool))
	return w.record()
}

// Decode unpacks a record and checks it is internally consistent: every slot is a
// real kind, no kind exceeds four copies, and the pool matches the hand.
func Decode(r Record) (Handle, error) {
	var h Handle
	w := r.word()
	h.Flags = Flags(w.field(flagsOffset, 8))
	for i := range h.Hand {
		k := tile.Kind(w.field(handOffset+uint(i)*slotWidth, slotWidth))
		if !k.Valid() {
			return h, fmt.Errorf("%w: slot %d holds kind %d", ErrMalformedRecord, i, k)
		}
		h.Hand[i] = k
	}
	h.Pool = Pool(w.field(poolOffset, tile.NumKinds))
	if w.hi>>(usedBits-64) != 0 {
		return h, fmt.Errorf("%w: reserved bits set", ErrMalformedRecord)
	}
	if h.Pool != h.Hand.Pool() {
		return h, fmt.Errorf("%w: pool does not match hand %s", ErrMalformedRecord, h.Hand)
	}
	for k, n := range h.Hand.Counts() {
		if n > tile.MaxCopies {
			return h, fmt.Errorf("%w: %d copies of %v", ErrMalformedRecord, n, tile.Kind(k))
		}
	}
	if err := h.Flags.Validate(); err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return h, nil
}
