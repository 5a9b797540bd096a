package taskqueue

import "github.com/abevier/outcome/internal/submit"

// FullQueueStrategy is the behavior that occurs when a task is submitted to a
// queue that is already at MaxQueueDepth.
type FullQueueStrategy submit.FullQueueStrategy

const (
	// BlockWhenFull exerts back pressure by blocking the caller until the
	// queue has room or the caller's context is done.
	BlockWhenFull FullQueueStrategy = FullQueueStrategy(submit.BlockWhenFull)
	// ErrorWhenFull immediately returns ErrQueueFull.
	ErrorWhenFull FullQueueStrategy = FullQueueStrategy(submit.ErrorWhenFull)
)

// Opts is used to configure a TaskQueue via the New function.
type Opts struct {
	// MaxWorkers is the number of worker goroutines running tasks.
	MaxWorkers int
	// MaxQueueDepth controls the number of outstanding tasks that can be
	// queued before the FullQueueStrategy applies.
	MaxQueueDepth int
	// FullQueueStrategy determines the queue's behavior when MaxQueueDepth
	// is exceeded.  By default the queue will block the caller.
	FullQueueStrategy FullQueueStrategy
}

func (o Opts) validate() {
	if o.MaxWorkers < 1 {
		panic("task queue max workers must be 1 or greater")
	}

	if o.MaxQueueDepth < 0 {
		panic("task queue max queue depth must be 0 or greater")
	}
}
