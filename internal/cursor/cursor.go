// Package cursor hands out work indices to concurrent workers.
//
// A Cursor is created for exactly one concurrent pass and shared by pointer
// with every worker of that pass. Workers pull indices until the cursor is
// exhausted; there is no per-worker queue.
package cursor

import "sync"

// Cursor is a mutex-guarded counter over the half-open range [0, bound).
type Cursor struct {
	mu    sync.Mutex
	next  int
	bound int
}

// New returns a cursor positioned at 0 that will hand out every index in
// [0, bound) exactly once. A negative bound is treated as 0.
func New(bound int) *Cursor {
	if bound < 0 {
		bound = 0
	}
	return &Cursor{bound: bound}
}

// Claim returns the next unclaimed index and advances the cursor. The
// second result is false once every index below the bound has been handed
// out.
//
// The bound check is strict (next < bound). Checking against bound+1 would
// let one caller receive bound itself, which is out of range.
func (c *Cursor) Claim() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.next >= c.bound {
		return 0, false
	}
	idx := c.next
	c.next++
	return idx, true
}

// Claimed returns how many indices have been handed out so far.
func (c *Cursor) Claimed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Bound returns the exclusive upper bound of the cursor.
func (c *Cursor) Bound() int {
	return c.bound
}

// Exhausted reports whether no index remains to be claimed.
func (c *Cursor) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next >= c.bound
}
