package monitor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll starts every monitor in its own goroutine and waits for all of them.
// The first fatal error cancels the remaining monitors and is returned.
func RunAll(ctx context.Context, monitors ...*Monitor) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, m := range monitors {
		m := m
		group.Go(func() error {
			return m.Start(groupCtx)
		})
	}
	return group.Wait()
}
