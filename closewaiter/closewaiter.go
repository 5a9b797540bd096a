// Package closewaiter provides a drain-on-close latch.  Work wrapped in Do
// is refused once Close has been called, and Close runs its cleanup function
// only after every in-flight Do has exited.  This orders a shutdown so that
// producers stop before the resources they produce into are torn down.
package closewaiter

import (
	"errors"
	"runtime"
	"sync/atomic"
)

const (
	open     = 0
	closed   = 1
	minusOne = ^uint32(0)
)

var (
	// ErrClosed is returned by Do after Close has been called.
	ErrClosed = errors.New("closed")
)

type CloseWaiter struct {
	isClosed  uint32
	activeCnt uint32

	closed chan struct{}
}

func New() *CloseWaiter {
	return &CloseWaiter{
		closed: make(chan struct{}),
	}
}

// Do runs f unless the CloseWaiter has been closed.  Close blocks until every
// in-flight call to Do has returned.
func (c *CloseWaiter) Do(f func()) error {
	atomic.AddUint32(&c.activeCnt, 1)
	defer atomic.AddUint32(&c.activeCnt, minusOne)

	if atomic.LoadUint32(&c.isClosed) == closed {
		return ErrClosed
	}

	f()
	return nil
}

// Close marks the CloseWaiter closed, waits for in-flight calls to Do to
// exit, runs f once, and returns.  Later calls to Close block until the
// first one's cleanup has finished and then return without running f again.
func (c *CloseWaiter) Close(f func()) {
	if atomic.CompareAndSwapUint32(&c.isClosed, open, closed) {
		go func() {
			for atomic.LoadUint32(&c.activeCnt) != 0 {
				// busy wait while yielding until all calls to Do have exited
				runtime.Gosched()
			}

			f()

			close(c.closed)
		}()
	}

	<-c.closed
}
