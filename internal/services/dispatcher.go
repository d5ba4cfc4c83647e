package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type task struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher runs notification work on a fixed pool of background workers
// so HTTP requests never wait on mail transport. Delivery is best-effort
// throughout: task errors are logged and swallowed, and when the queue is
// full Enqueue drops the task rather than block the caller.
type Dispatcher struct {
	tasks   chan task
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts `workers` goroutines consuming a queue of `queueSize`
// tasks. Each task runs under a context bounded by `timeout`.
func NewDispatcher(workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	d := &Dispatcher{
		tasks:   make(chan task, queueSize),
		logger:  logger,
		timeout: timeout,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for t := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := t.run(ctx); err != nil {
			d.logger.Warn("background task failed",
				slog.String("task", t.name),
				slog.Any("error", err))
		}
		cancel()
	}
}

// Enqueue submits a task for background execution. Returns false when the
// dispatcher is shut down or the queue is full; the caller is never blocked
// and never sees an error.
func (d *Dispatcher) Enqueue(name string, fn func(ctx context.Context) error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("task dropped: dispatcher closed", slog.String("task", name))
		return false
	}

	select {
	case d.tasks <- task{name: name, run: fn}:
		return true
	default:
		d.logger.Warn("task dropped: queue full", slog.String("task", name))
		return false
	}
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	d.wg.Wait()
}
