package workqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"seqsearch/internal/errors"
)

type batch []int

func (b batch) Count() int { return len(b) }

func shared[T any](fn func(ctx context.Context, item T) error) HandlerFactory[T] {
	return func(int) (Handler[T], error) { return HandlerFunc[T](fn), nil }
}

func TestFIFOWithSingleWorker(t *testing.T) {
	var got []int
	q, err := New(1, shared(func(_ context.Context, n int) error {
		got = append(got, n)
		return nil
	}), WithLogger[int](zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	want := make([]int, 100)
	for i := range want {
		want[i] = i
		require.NoError(t, q.Enqueue(i))
	}
	require.NoError(t, q.WaitTillDone())
	assert.Equal(t, want, got)
}

func TestEnqueueBlocksWhenFull(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	q, err := New(1, shared(func(_ context.Context, _ int) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-gate
		return nil
	}), WithCapacity[int](1))
	require.NoError(t, err)
	assert.Equal(t, 1, q.Capacity())

	require.NoError(t, q.Enqueue(1))
	// worker holds item 1; item 2 fills the buffer
	<-started
	require.NoError(t, q.Enqueue(2))

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(3) }()

	select {
	case <-done:
		t.Fatal("Enqueue returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue did not unblock")
	}
	require.NoError(t, q.WaitTillDone())
	assert.Equal(t, Stats{Processed: 3, Enqueued: 3}, q.Stats())
}

func TestObserverCountersMonotonic(t *testing.T) {
	q, err := New(4, shared(func(_ context.Context, _ batch) error {
		time.Sleep(100 * time.Microsecond)
		return nil
	}))
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		snaps    []Stats
		violated bool
	)
	q.OnProcessed(func(p, e uint64) {
		mu.Lock()
		defer mu.Unlock()
		if p > e {
			violated = true
		}
		if n := len(snaps); n > 0 && (p < snaps[n-1].Processed || e < snaps[n-1].Enqueued) {
			violated = true
		}
		snaps = append(snaps, Stats{p, e})
	})

	total := 0
	for i := 0; i < 200; i++ {
		b := make(batch, i%5+1)
		total += len(b)
		require.NoError(t, q.Enqueue(b))
	}
	require.NoError(t, q.WaitTillDone())

	assert.False(t, violated)
	require.Len(t, snaps, 200)
	assert.Equal(t, uint64(total), snaps[len(snaps)-1].Processed)
	assert.Equal(t, Stats{Processed: uint64(total), Enqueued: uint64(total)}, q.Stats())
}

func TestWaitTillDoneDrainsAndCloses(t *testing.T) {
	var n atomic.Int64
	q, err := New(3, shared(func(_ context.Context, _ int) error {
		n.Add(1)
		return nil
	}))
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	require.NoError(t, q.WaitTillDone())
	assert.EqualValues(t, 500, n.Load())

	require.NoError(t, q.WaitTillDone())
	err = q.Enqueue(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrClosed))
}

func TestSlowConsumerNeverDrops(t *testing.T) {
	var got atomic.Int64
	q, err := New(1, shared(func(_ context.Context, b batch) error {
		time.Sleep(time.Millisecond)
		got.Add(int64(len(b)))
		return nil
	}), WithCapacity[batch](2))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, q.Enqueue(batch{i, i}))
	}
	require.NoError(t, q.WaitTillDone())
	assert.EqualValues(t, 100, got.Load())
}

func TestFaultPropagates(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int64
	q, err := New(1, shared(func(ctx context.Context, n int) error {
		calls.Add(1)
		if n == 3 {
			return boom
		}
		return nil
	}), WithName[int]("search"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		if err := q.Enqueue(i); err != nil {
			break
		}
	}
	err = q.WaitTillDone()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(err, errors.ErrProcessing))
	assert.Contains(t, err.Error(), "search worker 0")
	assert.EqualValues(t, 4, calls.Load())

	assert.True(t, errors.Is(q.Enqueue(99), boom))
}

func TestPanicBecomesFault(t *testing.T) {
	q, err := New(2, shared(func(_ context.Context, _ int) error {
		panic("kaboom")
	}))
	require.NoError(t, err)
	_ = q.Enqueue(1)
	err = q.WaitTillDone()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestHandlerPerWorker(t *testing.T) {
	var ids []int
	var mu sync.Mutex
	q, err := New[int](4, func(worker int) (Handler[int], error) {
		mu.Lock()
		ids = append(ids, worker)
		mu.Unlock()
		return HandlerFunc[int](func(context.Context, int) error { return nil }), nil
	})
	require.NoError(t, err)
	require.NoError(t, q.WaitTillDone())
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
	assert.Equal(t, 4, q.PoolSize())
	assert.Equal(t, 8, q.Capacity())
}

func TestFactoryError(t *testing.T) {
	_, err := New[int](2, func(worker int) (Handler[int], error) {
		if worker == 1 {
			return nil, errors.New("no handler")
		}
		return HandlerFunc[int](func(context.Context, int) error { return nil }), nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create handler 1")

	_, err = New[int](1, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestAutoPoolSize(t *testing.T) {
	q, err := New(Auto, shared(func(context.Context, int) error { return nil }))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, q.PoolSize(), 1)
	assert.Equal(t, 2*q.PoolSize(), q.Capacity())
	require.NoError(t, q.WaitTillDone())
}

func TestItemObserver(t *testing.T) {
	var sizes atomic.Int64
	var failed atomic.Int64
	q, err := New(1, shared(func(_ context.Context, b batch) error {
		if len(b) == 0 {
			return errors.New("empty")
		}
		return nil
	}), WithItemObserver[batch](func(_, size int, _ time.Duration, err error) {
		sizes.Add(int64(size))
		if err != nil {
			failed.Add(1)
		}
	}))
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(batch{1, 2, 3}))
	require.NoError(t, q.WaitTillDone())
	assert.EqualValues(t, 3, sizes.Load())
	assert.Zero(t, failed.Load())
}

func TestCountOf(t *testing.T) {
	assert.Equal(t, 3, CountOf(batch{1, 2, 3}))
	assert.Equal(t, 1, CountOf(42))
}
