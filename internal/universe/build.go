package universe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/enumerate"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// BuildStats summarises a universe build.
type BuildStats struct {
	Emitted  int // hands produced by the generators, duplicates included
	Distinct int // records written
	Took     time.Duration
}

// Build materialises the generators' output at path with its index at indexPath.
//
// Hands are first spread over shard files by first-round key, so every copy of a hand
// lands in the same shard. Each shard is then deduplicated in memory, sorted by
// (key, hand) and appended to the universe, which leaves the file ordered by key.
func Build(ctx context.Context, gens []enumerate.Generator, path, indexPath string, shards int) (BuildStats, error) {
	began := time.Now()
	if shards < 1 {
		shards = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return BuildStats{}, err
	}
	tmp, err := os.MkdirTemp(filepath.Dir(path), "shards-*")
	if err != nil {
		return BuildStats{}, err
	}
	defer os.RemoveAll(tmp)

	files := make([]*os.File, shards)
	writers := make([]*bufio.Writer, shards)
	for i := range files {
		f, err := os.Create(filepath.Join(tmp, fmt.Sprintf("%04d.bin", i)))
		if err != nil {
			return BuildStats{}, err
		}
		defer f.Close()
		files[i] = f
		writers[i] = bufio.NewWriterSize(f, 1<<16)
	}
	shardOf := func(key uint32) int { return int(uint64(key) * uint64(shards) / handle.NumResults) }

	emitted, err := enumerate.Run(ctx, gens, func(h handle.Handle) error {
		r := handle.Encode(h)
		_, err := writers[shardOf(Key(&h.Hand))].Write(r[:])
		return err
	})
	if err != nil {
		return BuildStats{}, fmt.Errorf("enumerate: %w", err)
	}
	for _, w := range writers {
		if err := w.Flush(); err != nil {
			return BuildStats{}, err
		}
	}

	out, err := Create(path)
	if err != nil {
		return BuildStats{}, err
	}
	counts := make([]uint32, handle.NumResults)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			out.Close()
			return BuildStats{}, err
		}
		hs, err := dedupeShard(f)
		if err != nil {
			out.Close()
			return BuildStats{}, fmt.Errorf("shard %d: %w", i, err)
		}
		for _, kh := range hs {
			counts[kh.key]++
			if err := out.Write(kh.h); err != nil {
				out.Close()
				return BuildStats{}, err
			}
		}
		log.Debug().Int("shard", i).Int("records", len(hs)).Msg("shard written")
	}
	if err := out.Close(); err != nil {
		return BuildStats{}, err
	}
	if err := WriteIndex(indexPath, IndexFromCounts(counts)); err != nil {
		return BuildStats{}, err
	}

	st := BuildStats{Emitted: emitted, Distinct: out.Len(), Took: time.Since(began)}
	log.Info().Int("emitted", st.Emitted).Int("distinct", st.Distinct).Dur("took", st.Took).Str("path", path).Msg("universe built")
	return st, nil
}

type keyed struct {
	key uint32
	h   handle.Handle
}

// dedupeShard reads one shard back, merges duplicate hands and sorts by (key, hand).
func dedupeShard(f *os.File) ([]keyed, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	c := enumerate.NewCollector()
	br := bufio.NewReaderSize(f, 1<<20)
	var r handle.Record
	for {
		_, err := io.ReadFull(br, r[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		h, err := handle.Decode(r)
		if err != nil {
			return nil, err
		}
		c.Add(h)
	}
	hs := c.Handles()
	out := make([]keyed, len(hs))
	for i := range hs {
		out[i] = keyed{key: Key(&hs[i].Hand), h: hs[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, nil
}
