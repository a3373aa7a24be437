// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work run by Gather.
type Task[T any] func(ctx context.Context) (T, error)

// Gather runs all tasks concurrently and waits for every one to finish. It
// returns the results of the tasks that succeeded, in task order. Failed
// tasks, including ones that panic, are dropped; they never cancel or fail
// their siblings.
func Gather[T any](ctx context.Context, tasks ...Task[T]) []T {
	return GatherLimit(ctx, 0, tasks...)
}

// GatherLimit is Gather with at most limit tasks running at once. A
// non-positive limit means no bound.
func GatherLimit[T any](ctx context.Context, limit int, tasks ...Task[T]) []T {
	results := make([]T, len(tasks))
	ok := make([]bool, len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			v, err := run(ctx, task)
			if err == nil {
				results[i] = v
				ok[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(tasks))
	for i, v := range results {
		if ok[i] {
			out = append(out, v)
		}
	}
	return out
}

// run calls task and converts a panic into an error.
func run[T any](ctx context.Context, task Task[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}
