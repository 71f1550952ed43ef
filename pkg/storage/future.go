package storage

import (
	"context"
	"sync"
	"time"
)

// future collects the completion of one issued engine call. The engine's
// callback may fire on an arbitrary native thread; complete is safe to call
// from any goroutine and only the first terminal status wins. Progress
// notifications are forwarded to the optional sink without completing the
// future.
type future struct {
	done     chan struct{}
	once     sync.Once
	status   int
	msg      []byte
	progress func(msg []byte)
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// callback adapts the future to the engine Callback signature. Progress
// arriving after the terminal status is dropped.
func (f *future) callback(status int, msg []byte) {
	if status == StatusProgress {
		select {
		case <-f.done:
			return
		default:
		}
		if f.progress != nil {
			buf := make([]byte, len(msg))
			copy(buf, msg)
			f.progress(buf)
		}
		return
	}
	f.complete(status, msg)
}

func (f *future) complete(status int, msg []byte) {
	f.once.Do(func() {
		if len(msg) > 0 {
			f.msg = make([]byte, len(msg))
			copy(f.msg, msg)
		}
		f.status = status
		close(f.done)
	})
}

// wait blocks until the terminal callback arrives, the context is cancelled,
// or the timeout elapses. On timeout or cancellation the engine call is left
// to finish on its own; its eventual completion is recorded in the future
// and discarded.
func (f *future) wait(ctx context.Context, timeout time.Duration) (int, []byte, error) {
	if timeout <= 0 {
		select {
		case <-f.done:
			return f.status, f.msg, nil
		case <-ctx.Done():
			return 0, nil, waitErr(ctx)
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.status, f.msg, nil
	case <-ctx.Done():
		return 0, nil, waitErr(ctx)
	case <-timer.C:
		return 0, nil, ErrTimeout
	}
}

func waitErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return ErrTimeout
	}
	return ErrCancelled
}
