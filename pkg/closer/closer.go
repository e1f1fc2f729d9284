// Package closer provides a minimal one-shot shutdown signal shared by
// long-running components such as the voting loop.
package closer

import "sync"

// Closer lets one goroutine signal shutdown and others wait for it exactly
// once.
type Closer struct {
	once sync.Once
	done chan struct{}
}

// New returns a ready-to-use Closer.
func New() *Closer {
	return &Closer{done: make(chan struct{})}
}

// Close signals shutdown. Safe to call more than once.
func (c *Closer) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done returns a channel that closes once Close has been called.
func (c *Closer) Done() <-chan struct{} {
	return c.done
}
