package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/iafilius/PhishingDashboard/src/logging"
)

// DefaultInterval is the poll period used when Start is given none.
const DefaultInterval = 30 * time.Second

// Task is a running poll loop.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the loop and waits for the current cycle to return. Safe on a nil Task
// and safe to call more than once.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed when the loop has exited.
func (t *Task) Done() <-chan struct{} { return t.done }

// Start runs one refresh cycle immediately and then one per interval until ctx ends or the
// task is stopped. It returns nil without starting when there is no pie mount.
func (c *Controller) Start(ctx context.Context, interval time.Duration) *Task {
	if c.mounts.Pie == nil {
		logging.Debugf("[poll] no pie mount; scheduler not started")
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		logging.Infof("[poll] polling %s every %s", endpointOf(c.fetcher), interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		_ = c.Refresh(ctx) // logged inside; the next tick retries
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = c.Refresh(ctx)
			}
		}
	}()
	return t
}

func endpointOf(f Fetcher) string {
	if e, ok := f.(interface{ Endpoint() string }); ok {
		return e.Endpoint()
	}
	return "backend"
}
