package handlers

import "context"

// Semaphore bounds the number of scans admitted concurrently, per
// config.Config.MaxConcurrentScans. A nil Semaphore (MaxConcurrentScans == 0)
// admits unconditionally.
type Semaphore chan struct{}

// NewSemaphore returns a Semaphore with room for max concurrent holders, or
// nil (unlimited) if max is 0 or less.
func NewSemaphore(max int) Semaphore {
	if max <= 0 {
		return nil
	}
	return make(Semaphore, max)
}

// Acquire blocks until a slot is free or ctx is done.
func (s Semaphore) Acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the slot acquired by a prior successful Acquire.
func (s Semaphore) Release() {
	if s == nil {
		return
	}
	<-s
}
