package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs background tasks detached from any request. Failures
// and panics are logged, never propagated; Wait exists for shutdown and
// tests.
type Dispatcher struct {
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{log: log, timeout: 30 * time.Second}
}

func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("background task panicked", "task", name, "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.log.Error("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until all submitted tasks have finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }
