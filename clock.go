package main

import (
	"sync/atomic"
	"time"
)

// Clock supplies the monotonic power-on-relative timestamps every
// time-sensitive display call takes. The core never reads an ambient
// clock; tests drive a ManualClock instead.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reports time elapsed since creation.
type MonotonicClock struct {
	start time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock only moves when told to. Safe for concurrent readers.
type ManualClock struct {
	now atomic.Int64
}

func (c *ManualClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

func (c *ManualClock) Set(d time.Duration) {
	c.now.Store(int64(d))
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}
