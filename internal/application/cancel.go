package application

import "sync/atomic"

// Cancellation is the shared cooperative abort token for one batch. It is
// checked at exactly one point, before a queued unit starts; an in-flight
// request is always allowed to complete.
type Cancellation struct {
	flag atomic.Bool
}

func NewCancellation() *Cancellation {
	return &Cancellation{}
}

// Cancel flips the token. Idempotent and safe from any goroutine.
func (c *Cancellation) Cancel() {
	if c != nil {
		c.flag.Store(true)
	}
}

// Cancelled reports whether the token has been flipped. A nil token never
// cancels.
func (c *Cancellation) Cancelled() bool {
	return c != nil && c.flag.Load()
}
