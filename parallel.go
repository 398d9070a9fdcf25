package gameloc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachBounded runs fn for indexes 0..n-1 with at most limit calls in
// flight. The first error returned by fn cancels the shared context and no
// further indexes are started. done[i] is true for every index whose fn
// returned nil after actually running.
func forEachBounded(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (bool, error)) ([]bool, error) {
	done := make([]bool, n)
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A slot can free up after the group was cancelled.
			if gctx.Err() != nil {
				return nil
			}
			ok, err := fn(gctx, i)
			if err != nil {
				return err
			}
			done[i] = ok
			return nil
		})
	}

	return done, g.Wait()
}

// progressReporter serializes progress callbacks on one goroutine. The
// channel holds one slot per unit so workers never block on a slow callback.
type progressReporter struct {
	ch       chan Progress
	finished chan struct{}
}

func newProgressReporter(total int, fn ProgressFunc) *progressReporter {
	if fn == nil || total == 0 {
		return nil
	}

	r := &progressReporter{
		ch:       make(chan Progress, total),
		finished: make(chan struct{}),
	}

	go func() {
		defer close(r.finished)
		completed := 0
		for p := range r.ch {
			completed++
			p.Completed = completed
			p.Total = total
			fn(p)
		}
	}()

	return r
}

func (r *progressReporter) report(index int, result TranslationResult) {
	if r == nil {
		return
	}
	r.ch <- Progress{Index: index, Result: result}
}

// close waits until every queued callback has run.
func (r *progressReporter) close() {
	if r == nil {
		return
	}
	close(r.ch)
	<-r.finished
}
