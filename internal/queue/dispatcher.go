// Package queue serializes the state mutations of each visitor session.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned by Do after Close
var ErrClosed = errors.New("queue: dispatcher closed")

// Dispatcher runs closures one at a time per key, in submission order.
// Different keys run in parallel, each on its own worker goroutine.
type Dispatcher struct {
	logger *zap.Logger

	mu      sync.Mutex
	workers map[string]*worker
	closed  bool
	wg      sync.WaitGroup
}

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

type worker struct {
	key      string
	queue    []task
	pending  int // queued + running
	lastUsed time.Time
	stopped  bool
	wake     chan struct{}
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		workers: make(map[string]*worker),
	}
}

// Do enqueues fn on the worker for key and waits for its result.
// If ctx ends first Do returns ctx.Err(), but fn still runs to completion
// with a context that is never cancelled.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	t := task{
		ctx:  context.WithoutCancel(ctx),
		fn:   fn,
		done: make(chan error, 1),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	w, ok := d.workers[key]
	if !ok {
		w = &worker{key: key, wake: make(chan struct{}, 1)}
		d.workers[key] = w
		d.wg.Add(1)
		go d.run(w)
	}
	w.queue = append(w.queue, t)
	w.pending++
	d.mu.Unlock()

	signal(w.wake)

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		d.logger.Debug("Caller left before mutation finished",
			zap.String("session_id", key),
			zap.Error(ctx.Err()),
		)
		return ctx.Err()
	}
}

func (d *Dispatcher) run(w *worker) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if len(w.queue) == 0 {
			stopped := w.stopped
			d.mu.Unlock()
			if stopped {
				return
			}
			<-w.wake
			continue
		}
		t := w.queue[0]
		w.queue[0] = task{}
		w.queue = w.queue[1:]
		d.mu.Unlock()

		t.done <- d.execute(w.key, t)

		d.mu.Lock()
		w.pending--
		w.lastUsed = time.Now()
		d.mu.Unlock()
	}
}

func (d *Dispatcher) execute(key string, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Recovered panic in session mutation",
				zap.String("session_id", key),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("queue: mutation panicked: %v", r)
		}
	}()
	return t.fn(t.ctx)
}

// Reap stops workers that have nothing queued and were last used more than idle ago.
// It returns the number of workers stopped.
func (d *Dispatcher) Reap(idle time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	reaped := 0
	for key, w := range d.workers {
		if w.pending > 0 || w.lastUsed.After(cutoff) {
			continue
		}
		w.stopped = true
		signal(w.wake)
		delete(d.workers, key)
		reaped++
	}

	if reaped > 0 {
		d.logger.Debug("Reaped idle session workers",
			zap.Int("reaped", reaped),
			zap.Int("active", len(d.workers)),
		)
	}
	return reaped
}

// Len returns the number of live workers
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.workers)
}

// Close rejects new work, lets every queued closure finish and stops all workers
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for key, w := range d.workers {
		w.stopped = true
		signal(w.wake)
		delete(d.workers, key)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
