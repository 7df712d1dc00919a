package controller

import (
	"context"

	"oer-catalog/internal/catalog"

	"golang.org/x/sync/errgroup"
)

// Settle runs tasks concurrently and applies each result to c, on the calling
// goroutine, in the order results arrive. It returns once every task
// finished, or with ctx's error if ctx ends first.
func Settle(ctx context.Context, c *Controller, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	events := make(chan catalog.Event, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			events <- t()
			return nil
		})
	}

	for range tasks {
		select {
		case ev := <-events:
			c.Apply(ev)
		case <-gctx.Done():
			c.Close()
			_ = g.Wait()
			return ctx.Err()
		}
	}
	return g.Wait()
}
