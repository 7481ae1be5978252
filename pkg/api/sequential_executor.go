package api

import (
	"context"
	"sync"
	"time"
)

// SequentialExecutor runs calls one at a time and keeps a fixed pause between
// the end of one call and the start of the next. The first call starts
// immediately. The pause applies whether or not the previous call failed.
type SequentialExecutor struct {
	mu       sync.Mutex
	interval time.Duration
	lastDone time.Time
}

// NewSequentialExecutor creates an executor pausing interval between calls.
func NewSequentialExecutor(interval time.Duration) *SequentialExecutor {
	if interval < 0 {
		interval = 0
	}
	return &SequentialExecutor{interval: interval}
}

// Execute waits out the pause, then runs fn. A cancelled context aborts the
// wait and fn is not run.
func (se *SequentialExecutor) Execute(ctx context.Context, fn func() error) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if err := se.wait(ctx); err != nil {
		return err
	}

	err := fn()
	se.lastDone = time.Now()
	return err
}

func (se *SequentialExecutor) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if se.lastDone.IsZero() || se.interval == 0 {
		return nil
	}

	remaining := se.interval - time.Since(se.lastDone)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
