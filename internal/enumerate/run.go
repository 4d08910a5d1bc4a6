package enumerate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// Generator produces hands of one family through emit.
type Generator interface {
	Name() string
	Generate(ctx context.Context, emit func(handle.Handle) error) error
}

// All returns the three families over every kind.
func All() []Generator {
	return []Generator{Standard{Span: FullSpan}, SevenPairs{Span: FullSpan}, ThirteenUnique{}}
}

const progressEvery = 10_000_000

// Run starts one producer per generator and feeds every hand to sink from a single
// goroutine. It returns the number of hands produced, duplicates included.
// A failing sink stops the producers.
func Run(ctx context.Context, gens []Generator, sink func(handle.Handle) error) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	out := make(chan handle.Handle, 4096)

	for _, gen := range gens {
		g.Go(func() error {
			start := time.Now()
			n := 0
			err := gen.Generate(ctx, func(h handle.Handle) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				select {
				case out <- h:
					n++
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				return fmt.Errorf("%s: %w", gen.Name(), err)
			}
			log.Info().Str("family", gen.Name()).Int("hands", n).Dur("took", time.Since(start)).Msg("generator finished")
			return nil
		})
	}

	var total int
	var sinkErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for h := range out {
			if sinkErr != nil {
				continue
			}
			if err := sink(h); err != nil {
				sinkErr = err
				cancel()
				continue
			}
			total++
			if total%progressEvery == 0 {
				log.Info().Int("hands", total).Msg("enumerating")
			}
		}
	}()

	err := g.Wait()
	close(out)
	<-done
	if sinkErr != nil {
		return total, sinkErr
	}
	return total, err
}

// Collector merges readings of the same hand, keeping the most permissive flags.
type Collector struct {
	flags map[handle.Hand]handle.Flags
}

func NewCollector() *Collector {
	return &Collector{flags: make(map[handle.Hand]handle.Flags)}
}

// Add records h, merging with an earlier reading of the same hand.
func (c *Collector) Add(h handle.Handle) {
	if f, ok := c.flags[h.Hand]; ok {
		c.flags[h.Hand] = handle.Merge(f, h.Flags)
		return
	}
	c.flags[h.Hand] = h.Flags
}

func (c *Collector) Len() int { return len(c.flags) }

// Handles returns the distinct hands ordered by hand.
func (c *Collector) Handles() []handle.Handle {
	out := make([]handle.Handle, 0, len(c.flags))
	for h, f := range c.flags {
		out = append(out, handle.New(h, f))
	}
	sort.Slice(out, func(i, j int) bool { return Less(&out[i].Hand, &out[j].Hand) })
	return out
}

// Less orders hands slot by slot.
func Less(a, b *handle.Hand) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Collect runs the generators and returns the deduplicated universe.
// The whole universe is held in memory; universe.Build shards instead.
func Collect(ctx context.Context, gens []Generator) ([]handle.Handle, error) {
	c := NewCollector()
	if _, err := Run(ctx, gens, func(h handle.Handle) error {
		c.Add(h)
		return nil
	}); err != nil {
		return nil, err
	}
	return c.Handles(), nil
}
