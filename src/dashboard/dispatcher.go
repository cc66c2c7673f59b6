package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
)

// Dispatcher runs tasks one at a time on the goroutine that owns the charts.
type Dispatcher interface {
	Do(task func())
}

// DispatcherFunc adapts a function (e.g. fyne.Do) to Dispatcher.
type DispatcherFunc func(task func())

// Do calls f(task).
func (f DispatcherFunc) Do(task func()) { f(task) }

type immediate struct{}

func (immediate) Do(task func()) { task() }

// Immediate runs each task on the caller's goroutine. Only for callers that are already
// serialised, such as tests and the one-shot snapshot command.
var Immediate Dispatcher = immediate{}

// AfterOn returns a chartkit.After that waits on a timer and then posts the task to d.
// For Immediate it returns nil so animation frames run back to back.
func AfterOn(d Dispatcher) chartkit.After {
	if _, ok := d.(immediate); ok || d == nil {
		return nil
	}
	return func(delay time.Duration, task func()) {
		time.AfterFunc(delay, func() { d.Do(task) })
	}
}

// Loop is a serial task queue for hosts without their own UI thread. Tasks posted with Do
// run in order on the goroutine that calls Run. Do never blocks, so tasks may post more tasks.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// NewLoop returns an idle loop; call Run to start draining it.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Do enqueues task. Tasks posted after the loop stopped are dropped.
func (l *Loop) Do(task func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		for _, task := range batch {
			task()
		}
		if len(batch) > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.queue = nil
			l.mu.Unlock()
			return
		case <-l.wake:
		}
	}
}

// Call posts task and waits for it to finish, or for ctx to end.
func (l *Loop) Call(ctx context.Context, task func()) error {
	done := make(chan struct{})
	l.Do(func() {
		defer close(done)
		task()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
