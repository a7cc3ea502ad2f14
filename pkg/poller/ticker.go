// Package poller runs the periodic upstream reads that feed the map.
package poller

import (
	"context"
	"sync"
	"time"
)

// Task is one scheduled run.
type Task func(ctx context.Context)

// Ticker runs a task immediately and then once per interval. Every run
// gets its own goroutine, so a slow run may overlap the next one.
//
// Stop only clears the schedule. Runs already started keep going with the
// context passed to Start; use Wait to block until they finish.
type Ticker struct {
	interval time.Duration
	task     Task

	mu       sync.Mutex
	started  bool
	stopped  bool
	stop     chan struct{}
	done     chan struct{}
	inflight sync.WaitGroup
}

func NewTicker(interval time.Duration, task Task) *Ticker {
	return &Ticker{
		interval: interval,
		task:     task,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins scheduling. It returns immediately; calling it twice is a
// no-op.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true

	go t.loop(ctx)
}

func (t *Ticker) loop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.launch(ctx)
	for {
		select {
		case <-t.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.launch(ctx)
		}
	}
}

func (t *Ticker) launch(ctx context.Context) {
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.task(ctx)
	}()
}

// Stop prevents further runs and returns once the schedule has ended. It is
// safe to call more than once, before Start, and from inside a run.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		close(t.stop)
	}
	started := t.started
	t.mu.Unlock()

	if started {
		<-t.done
	}
}

// Wait blocks until the schedule has ended and every started run returned.
func (t *Ticker) Wait() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if started {
		<-t.done
	}
	t.inflight.Wait()
}
