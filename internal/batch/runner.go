package batch

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ItemFunc processes one item. Returned errors are recorded against the
// item; they do not stop the run.
type ItemFunc func(ctx context.Context, item Item) error

// Report is the outcome of one item.
type Report struct {
	Item Item
	Err  error
}

// Runner processes items with bounded concurrency.
type Runner struct {
	workers int
	log     zerolog.Logger
}

// NewRunner returns a runner with the given number of workers. Zero or
// less uses one worker per CPU.
func NewRunner(workers int, log zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{workers: workers, log: log}
}

// Workers returns the concurrency limit.
func (r *Runner) Workers() int { return r.workers }

// Run calls fn for every item and returns one report per item, in item
// order. When ctx is cancelled, items not yet started are reported with
// the context's error and Run returns it.
func (r *Runner) Run(ctx context.Context, items []Item, fn ItemFunc) ([]Report, error) {
	reports := make([]Report, len(items))
	for i, it := range items {
		reports[i].Item = it
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range items {
		if gctx.Err() != nil {
			reports[i].Err = gctx.Err()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i].Err = err
				return nil
			}
			item := items[i]
			r.log.Debug().Str("item", item.String()).Msg("processing")
			if err := fn(gctx, item); err != nil {
				reports[i].Err = err
				r.log.Error().Err(err).Str("item", item.String()).Msg("item failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, ctx.Err()
}

// Failed counts the reports carrying an error.
func Failed(reports []Report) int {
	n := 0
	for _, r := range reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}
