package app

import (
	"context"
	"time"
)

// RepeatingTask runs fn every interval until stopped.
// fn runs on the task goroutine, so a slow run swallows the ticks that fall inside it.
type RepeatingTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartRepeating first run happens one interval after the start
func StartRepeating(parent context.Context, interval time.Duration, fn func(ctx context.Context)) *RepeatingTask {
	ctx, cancel := context.WithCancel(parent)
	t := &RepeatingTask{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return t
}

// Stop cancel and wait for the goroutine to exit; safe to call twice or on nil
func (t *RepeatingTask) Stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}
