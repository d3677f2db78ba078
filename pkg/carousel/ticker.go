package carousel

import (
	"context"
	"sync"
	"time"
)

// tickSource abstracts time.Ticker for tests.
type tickSource interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Ticker advances a Rotator every interval while running.
type Ticker struct {
	r        *Rotator
	interval time.Duration
	onTick   func(idx int)
	newTick  func(time.Duration) tickSource

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker returns a stopped ticker. onTick, if non-nil, receives the new
// index after every automatic advance. It runs on the tick goroutine and must
// not call Stop.
func NewTicker(r *Rotator, interval time.Duration, onTick func(idx int)) *Ticker {
	return &Ticker{
		r:        r,
		interval: interval,
		onTick:   onTick,
		newTick: func(d time.Duration) tickSource {
			return realTicker{time.NewTicker(d)}
		},
	}
}

// Start acquires the timer. It is a no-op returning false when the ticker is
// already running, the interval is not positive, or there are fewer than two
// slides.
func (t *Ticker) Start(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runningLocked() || t.interval <= 0 || t.r.Len() <= 1 {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	src := t.newTick(t.interval)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go func() {
		defer close(done)
		defer src.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-src.C():
				// A stop racing with a tick must win.
				if ctx.Err() != nil {
					return
				}
				idx := t.r.Next()
				if t.onTick != nil {
					t.onTick(idx)
				}
			}
		}
	}()
	return true
}

// Stop releases the timer and waits for the tick loop to exit. No tick is
// delivered after Stop returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the timer is held. A ticker whose context ended
// is no longer running.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runningLocked()
}

func (t *Ticker) runningLocked() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Resize updates the slide count and releases the timer when rotation is no
// longer possible.
func (t *Ticker) Resize(n int) {
	t.r.Resize(n)
	if n <= 1 {
		t.Stop()
	}
}
