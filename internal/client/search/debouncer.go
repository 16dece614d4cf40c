// Package search runs type-ahead queries: a query fires only after a quiet
// period, a newer query cancels the one in flight, and results of
// superseded queries are dropped so subscribers see them in order.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookflix/internal/logging"
)

const DefaultDelay = 300 * time.Millisecond

// Func performs one query. It must honor ctx cancellation.
type Func[T any] func(ctx context.Context, query string) (T, error)

// Result is the outcome of the query submitted as Generation.
type Result[T any] struct {
	Generation uint64
	Query      string
	Value      T
	Err        error
}

type Debouncer[T any] struct {
	delay time.Duration
	fn    Func[T]
	log   logging.Logger

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
	results chan Result[T]

	wg sync.WaitGroup
}

func New[T any](delay time.Duration, fn Func[T], log logging.Logger) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Debouncer[T]{
		delay:   delay,
		fn:      fn,
		log:     log.With("component", "search"),
		results: make(chan Result[T], 1),
	}
}

// Results delivers the latest result. It holds at most one value: an
// unread result is replaced by a newer one.
func (d *Debouncer[T]) Results() <-chan Result[T] {
	return d.results
}

// Submit schedules query and supersedes everything submitted before. It
// returns the generation the query's result will carry, or 0 after Close.
func (d *Debouncer[T]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}

	d.stopLocked()

	d.gen++
	gen := d.gen
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.fire(ctx, gen, query)
	})
	return gen
}

// Await waits for the result of gen or of any later generation.
func (d *Debouncer[T]) Await(ctx context.Context, gen uint64) (Result[T], error) {
	for {
		select {
		case <-ctx.Done():
			return Result[T]{}, ctx.Err()
		case res := <-d.results:
			if res.Generation >= gen {
				return res, nil
			}
		}
	}
}

// Close cancels the pending query and waits for running ones to finish.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil && d.timer.Stop() {
		// the callback will never run
		d.wg.Done()
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.timer, d.cancel = nil, nil
}

func (d *Debouncer[T]) fire(ctx context.Context, gen uint64, query string) {
	value, err := d.fn(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.gen {
		d.log.Debug(ctx, "stale search result dropped", "generation", gen, "query", query)
		return
	}

	select {
	case <-d.results:
	default:
	}
	d.results <- Result[T]{Generation: gen, Query: query, Value: value, Err: err}
}
