// Package scheduler runs deferred and periodic in-process tasks. Pending work
// lives only in memory and is dropped on Shutdown or process exit.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("scheduler closed")

// Task receives a context that is cancelled only if Shutdown gives up waiting.
type Task func(ctx context.Context)

type Queue struct {
	log *zap.Logger

	mu     sync.Mutex
	timers map[uint64]*time.Timer
	nextID uint64
	closed bool

	wg     sync.WaitGroup
	stop   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		log:    log.With(zap.String("component", "scheduler")),
		timers: make(map[uint64]*time.Timer),
		stop:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule runs fn once after delay. A non-positive delay runs it as soon as possible.
func (q *Queue) Schedule(name string, delay time.Duration, fn Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.nextID++
	id := q.nextID
	q.timers[id] = time.AfterFunc(delay, func() { q.fire(id, name, fn) })
	return nil
}

func (q *Queue) fire(id uint64, name string, fn Task) {
	q.mu.Lock()
	if _, ok := q.timers[id]; !ok || q.closed {
		q.mu.Unlock()
		return
	}
	delete(q.timers, id)
	q.wg.Add(1)
	q.mu.Unlock()

	defer q.wg.Done()
	q.run(name, fn)
}

func (q *Queue) run(name string, fn Task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("task panicked", zap.String("task", name), zap.Any("panic", r))
		}
	}()
	fn(q.ctx)
}

// Every runs fn every interval until Shutdown.
func (q *Queue) Every(name string, interval time.Duration, fn Task) error {
	if interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-q.stop:
				return
			case <-t.C:
				q.run(name, fn)
			}
		}
	}()
	return nil
}

// Pending reports scheduled one-shot tasks that have not started yet.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Shutdown drops pending tasks and waits for running ones until ctx is done.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	dropped := len(q.timers)
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	close(q.stop)
	q.mu.Unlock()

	if dropped > 0 {
		q.log.Warn("dropping pending tasks", zap.Int("count", dropped))
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	defer q.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
