// Package parallel provides helpers for goroutines that share a failure
// outcome.
package parallel

import (
	"sync"
	"sync/atomic"
)

// ErrorCollector keeps the first non-nil error reported by any number of
// goroutines and counts every non-nil report. The zero value is ready to
// use.
//
//	var ec parallel.ErrorCollector
//	for _, job := range jobs {
//	    g.Go(func() error { ec.SetError(job()); return nil })
//	}
//	g.Wait()
//	return ec.Err()
type ErrorCollector struct {
	mu    sync.Mutex
	err   error
	count atomic.Int64
}

// SetError records err if it is the first non-nil error. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.count.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Count returns how many non-nil errors were reported.
func (c *ErrorCollector) Count() int {
	return int(c.count.Load())
}

// Reset clears the collector. It must not race with SetError.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
	c.count.Store(0)
}
