package net

import "sync/atomic"

// Clock is a Lamport clock stamping outgoing messages.
type Clock struct {
	counter atomic.Uint64
}

// Tick advances the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

// Observe moves the clock forward to a timestamp seen on the wire.
func (c *Clock) Observe(ts uint64) {
	for {
		cur := c.counter.Load()
		if ts <= cur || c.counter.CompareAndSwap(cur, ts) {
			return
		}
	}
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	return c.counter.Load()
}
