package ops

import (
	"context"
	"time"
)

// Runner drives a tick function from a repeating timer. At most one timer
// goroutine is live per Runner. Calls must be serialised by the owner.
type Runner struct {
	period time.Duration
	tick   func(ctx context.Context)

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(period time.Duration, tick func(ctx context.Context)) *Runner {
	return &Runner{period: period, tick: tick}
}

func (r *Runner) Running() bool {
	return r.cancel != nil
}

// Start launches the timer goroutine. It returns false if already running.
func (r *Runner) Start(ctx context.Context) bool {
	if r.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go func() {
		defer close(done)
		r.run(ctx)
	}()
	return true
}

func (r *Runner) run(ctx context.Context) {
	t := time.NewTicker(r.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.tick(ctx)
		}
	}
}

// Stop cancels the timer goroutine. The returned channel is closed once the
// goroutine has exited. A tick already in flight observes the cancelled
// context and must not mutate state.
func (r *Runner) Stop() <-chan struct{} {
	if r.cancel == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	r.cancel()
	done := r.done
	r.cancel, r.done = nil, nil
	return done
}
