package engine

import (
	"context"
	"errors"
	"time"
)

var ErrLoopStopped = errors.New("loop stopped")

// Token names a scheduled activity. At most one callback per token is pending.
type Token int

const (
	TokenPoll Token = iota
	TokenSyncRetry
)

func (t Token) String() string {
	switch t {
	case TokenPoll:
		return "poll"
	case TokenSyncRetry:
		return "sync_retry"
	default:
		return "unknown"
	}
}

// Scheduler runs fn once after delay on the engine's execution context.
// Scheduling a token that is already pending replaces the pending callback.
type Scheduler interface {
	Schedule(token Token, delay time.Duration, fn func())
	Cancel(token Token)
}

type loopTimer struct {
	timer *time.Timer
	gen   uint64
}

// Loop is a single goroutine executor. Every task posted to it runs to completion
// before the next one starts, so engine state needs no locking.
//
// Schedule and Cancel must only be called from tasks running on the loop.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	timers map[Token]*loopTimer
	gen    uint64
}

func NewLoop() *Loop {
	return &Loop{
		tasks:  make(chan func(), 64),
		done:   make(chan struct{}),
		timers: make(map[Token]*loopTimer),
	}
}

// Run executes posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			for token, lt := range l.timers {
				lt.timer.Stop()
				delete(l.timers, token)
			}
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for it to return. Calling Do from a task
// already running on the loop deadlocks.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.post(ctx, func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

func (l *Loop) post(ctx context.Context, fn func()) error {
	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

func (l *Loop) Schedule(token Token, delay time.Duration, fn func()) {
	l.Cancel(token)

	l.gen++
	gen := l.gen
	t := time.AfterFunc(delay, func() {
		_ = l.post(context.Background(), func() {
			// the timer may have been cancelled or replaced after it fired
			cur, ok := l.timers[token]
			if !ok || cur.gen != gen {
				return
			}
			delete(l.timers, token)
			fn()
		})
	})
	l.timers[token] = &loopTimer{timer: t, gen: gen}
}

func (l *Loop) Cancel(token Token) {
	if lt, ok := l.timers[token]; ok {
		lt.timer.Stop()
		delete(l.timers, token)
	}
}
