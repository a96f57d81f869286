package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Rejection sentinels. A task rejected with one of these never ran; callers
// must treat them differently from an error returned by the task itself.
var (
	ErrSuperseded = errors.New("task superseded by a newer task with the same key")
	ErrQueueFull  = errors.New("queue full, oldest pending task dropped")
	ErrStale      = errors.New("task timed out waiting in queue")
	ErrCleared    = errors.New("queue cleared")
	ErrStopped    = errors.New("queue stopped")
)

// IsRejection reports whether err is a queue-level rejection, meaning the
// task function was never executed.
func IsRejection(err error) bool {
	return errors.Is(err, ErrSuperseded) ||
		errors.Is(err, ErrQueueFull) ||
		errors.Is(err, ErrStale) ||
		errors.Is(err, ErrCleared) ||
		errors.Is(err, ErrStopped)
}

type TaskFunc func(ctx context.Context) (any, error)

type result struct {
	value any
	err   error
}

type task struct {
	ctx     context.Context
	fn      TaskFunc
	key     string
	addedAt time.Time
	done    chan result
}

func (t *task) finish(value any, err error) {
	t.done <- result{value: value, err: err}
}

// Queue runs tasks one at a time. Pending tasks are dequeued most-recent-first
// so freshly discovered work takes priority over backlog from a burst; this
// LIFO order is deliberate, not an oversight. A pending task sharing a key
// with a newly enqueued task is superseded, the oldest pending task is dropped
// when the queue is at capacity, and a task older than maxAge at dequeue time
// is rejected without running.
type Queue struct {
	mu      sync.Mutex
	pending []*task
	maxSize int
	maxAge  time.Duration
	stopped bool

	wake chan struct{}
	quit chan struct{}

	logger *zap.Logger
	now    func() time.Time
}

func New(maxSize int, maxAge time.Duration, logger *zap.Logger) *Queue {
	q := &Queue{
		maxSize: maxSize,
		maxAge:  maxAge,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		logger:  logger,
		now:     time.Now,
	}
	go q.run()
	return q
}

// Enqueue submits fn and blocks until it has run or been rejected. A non-empty
// key supersedes any pending task with the same key. If ctx is cancelled while
// waiting, Enqueue returns early but the task may still run.
func (q *Queue) Enqueue(ctx context.Context, key string, fn TaskFunc) (any, error) {
	t := &task{
		ctx:     ctx,
		fn:      fn,
		key:     key,
		addedAt: q.now(),
		done:    make(chan result, 1),
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil, ErrStopped
	}

	if key != "" {
		for i, p := range q.pending {
			if p.key == key {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				q.logger.Debug("superseding pending task",
					zap.String("key", key), zap.Int("position", i))
				p.finish(nil, ErrSuperseded)
				break
			}
		}
	}

	if len(q.pending) >= q.maxSize {
		oldest := q.pending[0]
		q.pending = q.pending[1:]
		q.logger.Warn("queue full, dropping oldest pending task",
			zap.String("key", oldest.key),
			zap.Duration("age", q.now().Sub(oldest.addedAt)))
		oldest.finish(nil, ErrQueueFull)
	}

	q.pending = append(q.pending, t)
	q.mu.Unlock()

	q.notify()

	select {
	case r := <-t.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Clear rejects every pending task. A task already running is unaffected.
func (q *Queue) Clear() {
	q.mu.Lock()
	cleared := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(cleared) > 0 {
		q.logger.Info("clearing pending tasks", zap.Int("count", len(cleared)))
	}
	for _, t := range cleared {
		t.finish(nil, ErrCleared)
	}
}

// Stop shuts the queue down, rejecting all pending tasks. Enqueue after Stop
// fails with ErrStopped.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	stopped := q.pending
	q.pending = nil
	q.mu.Unlock()

	close(q.quit)
	for _, t := range stopped {
		t.finish(nil, ErrStopped)
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	for {
		select {
		case <-q.quit:
			return
		case <-q.wake:
		}

		for {
			t := q.takeNewest()
			if t == nil {
				break
			}

			age := q.now().Sub(t.addedAt)
			if age > q.maxAge {
				q.logger.Warn("skipping stale task",
					zap.String("key", t.key), zap.Duration("age", age))
				t.finish(nil, ErrStale)
				continue
			}

			value, err := t.fn(t.ctx)
			t.finish(value, err)
		}
	}
}

func (q *Queue) takeNewest() *task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	t := q.pending[len(q.pending)-1]
	q.pending = q.pending[:len(q.pending)-1]
	return t
}

// Do runs fn through q and returns its typed result.
func Do[T any](ctx context.Context, q *Queue, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := q.Enqueue(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
