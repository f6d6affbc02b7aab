// Package workqueue is a bounded, multi-worker queue for pipeline stages.
//
// A Queue owns a fixed pool of goroutines, each driving its own Handler built
// by a HandlerFactory, so handlers may hold per-worker state without locks.
// Producers block in Enqueue while the queue is full; nothing is dropped.
//
//	q, _ := workqueue.New(workqueue.Auto, factory, workqueue.WithCapacity[Batch](8))
//	for ... { if err := q.Enqueue(b); err != nil { ... } }
//	err := q.WaitTillDone()
//
// The first handler error (or panic) becomes the queue's fault: the handler
// context is cancelled, remaining items are drained unprocessed, and the
// fault is returned from WaitTillDone and any later Enqueue.
package workqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"seqsearch/internal/errors"
	"seqsearch/internal/logging"
	"seqsearch/internal/sysinfo"
)

// Auto sizes the pool from the host's logical CPU count.
const Auto = 0

// Handler processes one item. Each worker owns exactly one Handler.
type Handler[T any] interface {
	Process(ctx context.Context, item T) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[T any] func(ctx context.Context, item T) error

func (f HandlerFunc[T]) Process(ctx context.Context, item T) error { return f(ctx, item) }

// HandlerFactory builds the handler for worker index worker (0-based).
type HandlerFactory[T any] func(worker int) (Handler[T], error)

// Stats is a consistent snapshot of the unit counters.
type Stats struct {
	Processed uint64
	Enqueued  uint64
}

// ItemObserver is told about every item a worker finishes, failed or not.
type ItemObserver func(worker, size int, took time.Duration, err error)

// Queue is a bounded FIFO of items drained by a fixed pool of workers.
type Queue[T any] struct {
	name     string
	pool     int
	capacity int
	sizer    Sizer[T]
	log      *zap.SugaredLogger
	onItem   ItemObserver

	items chan T
	wg    sync.WaitGroup

	mu     sync.RWMutex // held for reading while sending, for writing to close
	closed bool
	once   sync.Once

	processed atomic.Uint64
	enqueued  atomic.Uint64

	obsMu    sync.Mutex
	observer func(processed, enqueued uint64)

	ctx    context.Context
	cancel context.CancelFunc

	faultMu sync.Mutex
	fault   error
}

type options[T any] struct {
	capacity int
	sizer    Sizer[T]
	log      *zap.SugaredLogger
	name     string
	onItem   ItemObserver
}

// Option configures New.
type Option[T any] func(*options[T])

// WithCapacity bounds the number of buffered items. n <= 0 keeps the default
// of twice the pool size.
func WithCapacity[T any](n int) Option[T] {
	return func(o *options[T]) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithSizer sets how many units each item counts for in progress reporting.
func WithSizer[T any](fn Sizer[T]) Option[T] {
	return func(o *options[T]) {
		if fn != nil {
			o.sizer = fn
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger[T any](l *zap.SugaredLogger) Option[T] {
	return func(o *options[T]) {
		if l != nil {
			o.log = l
		}
	}
}

// WithName labels log lines and fault messages.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		if name != "" {
			o.name = name
		}
	}
}

// WithItemObserver installs a per-item hook, called from the worker goroutine.
func WithItemObserver[T any](fn ItemObserver) Option[T] {
	return func(o *options[T]) { o.onItem = fn }
}

// New builds one handler per worker and starts the pool. If any factory call
// fails no goroutine is started.
func New[T any](poolSize int, factory HandlerFactory[T], opts ...Option[T]) (*Queue[T], error) {
	if factory == nil {
		return nil, errors.InvalidConfigf("workqueue: nil handler factory")
	}
	if poolSize <= Auto {
		poolSize = sysinfo.NumCPU()
	}
	o := options[T]{
		capacity: 2 * poolSize,
		sizer:    CountOf[T],
		log:      logging.Nop(),
		name:     "queue",
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlers := make([]Handler[T], poolSize)
	for i := range handlers {
		h, err := factory(i)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: create handler %d", o.name, i)
		}
		if h == nil {
			return nil, errors.Newf("%s: factory returned nil handler %d", o.name, i)
		}
		handlers[i] = h
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue[T]{
		name:     o.name,
		pool:     poolSize,
		capacity: o.capacity,
		sizer:    o.sizer,
		log:      o.log.With(logging.FieldQueue, o.name),
		onItem:   o.onItem,
		items:    make(chan T, o.capacity),
		ctx:      ctx,
		cancel:   cancel,
	}
	q.wg.Add(poolSize)
	for i, h := range handlers {
		go q.work(i, h)
	}
	q.log.Debugw("queue started", logging.FieldPoolSize, poolSize, logging.FieldCapacity, o.capacity)
	return q, nil
}

// PoolSize is the number of workers, with Auto resolved.
func (q *Queue[T]) PoolSize() int { return q.pool }

// Capacity is how many items may wait in the queue.
func (q *Queue[T]) Capacity() int { return q.capacity }

// OnProcessed installs fn, called after every successfully processed item
// with the cumulative processed and enqueued unit counts. Calls are
// serialized; processed never exceeds enqueued and neither decreases.
func (q *Queue[T]) OnProcessed(fn func(processed, enqueued uint64)) {
	q.obsMu.Lock()
	q.observer = fn
	q.obsMu.Unlock()
}

// Stats returns the counters as one consistent snapshot.
func (q *Queue[T]) Stats() Stats {
	q.obsMu.Lock()
	defer q.obsMu.Unlock()
	p := q.processed.Load()
	return Stats{Processed: p, Enqueued: q.enqueued.Load()}
}

// Err returns the fault, if any.
func (q *Queue[T]) Err() error {
	q.faultMu.Lock()
	defer q.faultMu.Unlock()
	return q.fault
}

// Enqueue hands item to the pool, blocking while the queue is full.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if err := q.Err(); err != nil {
		return err
	}
	if q.closed {
		return errors.Wrap(errors.ErrClosed, q.name)
	}
	q.enqueued.Add(uint64(q.sizer(item)))
	q.items <- item
	return nil
}

// WaitTillDone stops accepting items, waits until every queued item has been
// handled and returns the fault, if any. It is safe to call more than once.
func (q *Queue[T]) WaitTillDone() error {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.items)
		q.mu.Unlock()

		q.wg.Wait()
		q.cancel()
		st := q.Stats()
		q.log.Debugw("queue drained", "processed", st.Processed, "enqueued", st.Enqueued)
	})
	return q.Err()
}

func (q *Queue[T]) work(id int, h Handler[T]) {
	defer q.wg.Done()
	for item := range q.items {
		if q.ctx.Err() != nil {
			continue // faulted: drain so producers unblock
		}
		size := q.sizer(item)
		start := time.Now()
		err := q.process(h, item)
		if q.onItem != nil {
			q.onItem(id, size, time.Since(start), err)
		}
		if err != nil {
			q.fail(id, err)
			continue
		}

		q.obsMu.Lock()
		p := q.processed.Add(uint64(size))
		if q.observer != nil {
			q.observer(p, q.enqueued.Load())
		}
		q.obsMu.Unlock()
	}
}

func (q *Queue[T]) process(h Handler[T], item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic: %v", r)
		}
	}()
	return h.Process(q.ctx, item)
}

func (q *Queue[T]) fail(worker int, err error) {
	q.faultMu.Lock()
	defer q.faultMu.Unlock()
	if q.fault != nil {
		return
	}
	q.fault = errors.Mark(errors.Wrapf(err, "%s worker %d", q.name, worker), errors.ErrProcessing)
	q.cancel()
	q.log.Errorw("worker failed", logging.FieldWorker, worker, logging.FieldError, err)
}
