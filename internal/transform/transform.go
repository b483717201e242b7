// Package transform implements the two processors being benchmarked: a
// single-threaded pass and a pass in which workers pull indices from a
// shared cursor until it is exhausted.
package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"primebench/internal/cursor"
	"primebench/internal/logging"
	"primebench/internal/primality"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoWorkers is returned when a concurrent pass is asked to run with
	// fewer than one worker.
	ErrNoWorkers = errors.New("worker count must be at least 1")

	// ErrWorkerSpawn is returned when a worker cannot be created.
	ErrWorkerSpawn = errors.New("failed to create worker")

	// ErrWorkerJoin is returned when a worker does not terminate cleanly.
	ErrWorkerJoin = errors.New("failed to join worker")
)

// Result is the outcome of one processing pass.
type Result struct {
	Output  []float64
	Elapsed time.Duration

	// Workers is the number of workers actually spawned, after clamping.
	// It is 1 for a sequential pass.
	Workers int

	// PerWorker holds how many indices each worker claimed.
	PerWorker []int
}

// Sequential computes the output series in a single pass on the calling
// goroutine.
func Sequential(input []int) Result {
	timer := logging.StartTimer(logging.CategoryPerformance, "sequential pass")

	start := time.Now()
	out := make([]float64, len(input))
	for i, v := range input {
		out[i] = primality.Transform(v)
	}
	elapsed := time.Since(start)

	timer.Stop()
	return Result{
		Output:    out,
		Elapsed:   elapsed,
		Workers:   1,
		PerWorker: []int{len(input)},
	}
}

// Option configures a concurrent pass.
type Option func(*options)

type options struct {
	maxWorkers int
	onClaim    func(worker, index int)
}

// WithMaxWorkers caps how many workers may be created. Asking for more
// workers than the cap fails the pass with ErrWorkerSpawn. Zero means no
// cap.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// withClaimHook runs fn after every successful claim, before the element is
// computed. Used by tests to inject jitter and faults.
func withClaimHook(fn func(worker, index int)) Option {
	return func(o *options) {
		o.onClaim = fn
	}
}

// Concurrent computes the output series with the given number of workers.
// Workers share one cursor bounded by len(input) and each repeatedly claims
// an index, computes that element, and stops once the cursor is exhausted.
// Concurrent returns only after every worker has terminated.
//
// If workers exceeds len(input) it is clamped to len(input). The context is
// checked before any worker is spawned; once running, workers are not
// cancelled.
func Concurrent(ctx context.Context, input []int, workers int, opts ...Option) (Result, error) {
	if workers < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := len(input)
	if workers > n {
		logging.WorkersDebug("clamping %d workers to %d elements", workers, n)
		workers = n
	}
	if n == 0 {
		return Result{Output: []float64{}, PerWorker: []int{}}, nil
	}
	if o.maxWorkers > 0 && workers > o.maxWorkers {
		return Result{}, fmt.Errorf("%w: %d workers requested, limit is %d", ErrWorkerSpawn, workers, o.maxWorkers)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out := make([]float64, n)
	cur := cursor.New(n)
	perWorker := make([]int, workers)

	timer := logging.StartTimer(logging.CategoryPerformance, "concurrent pass")
	start := time.Now()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d: %v", ErrWorkerJoin, w, r)
				}
			}()
			perWorker[w] = drain(cur, input, out, w, o.onClaim)
			return nil
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)
	timer.Stop()

	if err != nil {
		logging.WorkersError("concurrent pass failed: %v", err)
		return Result{}, err
	}

	logging.WorkersDebug("%d workers claimed %d indices: %v", workers, cur.Claimed(), perWorker)
	return Result{
		Output:    out,
		Elapsed:   elapsed,
		Workers:   workers,
		PerWorker: perWorker,
	}, nil
}

// drain is the worker loop. Each claimed index is owned by exactly one
// worker, so out is written without further locking.
func drain(cur *cursor.Cursor, input []int, out []float64, worker int, onClaim func(worker, index int)) int {
	claimed := 0
	for {
		idx, ok := cur.Claim()
		if !ok {
			return claimed
		}
		if onClaim != nil {
			onClaim(worker, idx)
		}
		out[idx] = primality.Transform(input[idx])
		claimed++
	}
}
