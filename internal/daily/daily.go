// apps/handle-solver/internal/daily/daily.go
//
// Daily puzzle selection. Every instance with the same salt and universe picks the
// same hand for a given UTC date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// HandIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func HandIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Secret picks the day's hand from u, returning it with its index.
func Secret(u []handle.Handle, date time.Time, salt string) (handle.Hand, int) {
	i := HandIndex(date, salt, len(u))
	return u[i].Hand, i
}
