package universe

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// Source serves a universe file and its index to sessions.
//
// Behavior:
//   - The full universe and the index are loaded once, on first use (sync.Once).
//   - First-round candidate sets are read straight from the file by index range,
//     so they are available before the full universe finishes loading.
//   - Everything returned is shared and must be treated as read-only.
type Source struct {
	UniversePath string
	IndexPath    string

	ixOnce sync.Once
	ix     Index
	ixErr  error

	allOnce sync.Once
	all     []handle.Handle
	allErr  error
	loaded  atomic.Bool
}

// NewSource points a Source at a universe file and its index.
func NewSource(universePath, indexPath string) *Source {
	return &Source{UniversePath: universePath, IndexPath: indexPath}
}

// Index loads the index once and checks that it covers the universe file exactly.
func (s *Source) Index() (Index, error) {
	s.ixOnce.Do(func() {
		ix, err := ReadIndex(s.IndexPath)
		if err != nil {
			s.ixErr = err
			return
		}
		n, err := Count(s.UniversePath)
		if err != nil {
			s.ixErr = err
			return
		}
		if ix.Len() != n {
			s.ixErr = fmt.Errorf("%w: %s covers %d records, %s has %d",
				ErrIndexMismatch, s.IndexPath, ix.Len(), s.UniversePath, n)
			return
		}
		s.ix = ix
	})
	return s.ix, s.ixErr
}

// All loads the whole universe once.
func (s *Source) All() ([]handle.Handle, error) {
	s.allOnce.Do(func() {
		s.all, s.allErr = Load(s.UniversePath)
		s.loaded.Store(s.allErr == nil)
	})
	return s.all, s.allErr
}

// FirstRound returns the hands consistent with result for the opening guess.
func (s *Source) FirstRound(result handle.Result) ([]handle.Handle, error) {
	ix, err := s.Index()
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	start, end := ix.Range(result)
	if s.loaded.Load() {
		if int(end) > len(s.all) || start > end {
			return nil, fmt.Errorf("%w: range [%d, %d) of %d records", ErrIndexMismatch, start, end, len(s.all))
		}
		return s.all[start:end:end], nil
	}
	return LoadRange(s.UniversePath, start, end)
}
